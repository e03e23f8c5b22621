package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"OnTrack/internal/model/dto"
	"OnTrack/internal/service"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/response"
)

// ListTemplates 列出自定义任务模板
// GET /v1/templates
func ListTemplates(ctx context.Context, c *app.RequestContext) {
	items, err := service.Template().List(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// CreateTemplate 新建自定义任务模板，次日清单生效
// POST /v1/templates
func CreateTemplate(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateTemplateRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := service.Template().Create(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, item)
}

// DeleteTemplate 删除自定义任务模板，已物化的历史清单不受影响
// DELETE /v1/templates/:id
func DeleteTemplate(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")
	if id == "" {
		response.Error(ctx, c, pkgerrors.InvalidRequest)
		return
	}

	if err := service.Template().Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
