package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"OnTrack/config"
	"OnTrack/internal/model"
	"OnTrack/internal/model/dto"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
	"OnTrack/storage/database"
)

// 自定义任务模板管理。模板只在新一天的清单物化时生效，
// 增删改不会触碰任何已生成的当日清单。

type TemplateService struct{}

var (
	templateService *TemplateService
	templateOnce    sync.Once
)

func Template() *TemplateService {
	templateOnce.Do(func() {
		templateService = &TemplateService{}
	})
	return templateService
}

// List 返回全部模板（含停用的）。
func (s *TemplateService) List(ctx context.Context) ([]dto.TemplateItem, error) {
	var templates []model.CustomTaskTemplate
	err := database.DB().WithContext(ctx).Order("id ASC").Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list custom task templates: %w", err)
	}

	items := make([]dto.TemplateItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, toTemplateItem(&t))
	}
	return items, nil
}

// Create 新建模板。数量超过上限或计划时间非法时拒绝。
func (s *TemplateService) Create(ctx context.Context, req dto.CreateTemplateRequest) (*dto.TemplateItem, error) {
	if req.Title == "" || len(req.Title) > 128 {
		return nil, pkgerrors.InvalidRequest
	}
	if req.ScheduledHour < 0 || req.ScheduledHour > 23 ||
		req.ScheduledMinute < 0 || req.ScheduledMinute > 59 {
		return nil, pkgerrors.TemplateTimeInvalid
	}

	db := database.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.CustomTaskTemplate{}).Where("enabled = ?", true).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count custom task templates: %w", err)
	}
	if count >= int64(config.Cfg.CustomTaskLimit) {
		return nil, pkgerrors.TemplateLimitReached
	}

	tpl := model.CustomTaskTemplate{
		PublicID:        uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		ScheduledHour:   req.ScheduledHour,
		ScheduledMinute: req.ScheduledMinute,
		Enabled:         true,
	}
	if err := db.Create(&tpl).Error; err != nil {
		return nil, fmt.Errorf("failed to create custom task template: %w", err)
	}

	logger.Logger.Info("Created custom task template",
		zap.String("public_id", tpl.PublicID),
		zap.String("title", tpl.Title),
	)

	item := toTemplateItem(&tpl)
	return &item, nil
}

// Delete 停用并软删除模板。已物化到历史清单的任务不受影响。
func (s *TemplateService) Delete(ctx context.Context, publicID string) error {
	db := database.DB().WithContext(ctx)

	var tpl model.CustomTaskTemplate
	err := db.Where("public_id = ?", publicID).First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.TemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query custom task template: %w", err)
	}

	if err := db.Model(&tpl).Update("enabled", false).Error; err != nil {
		return fmt.Errorf("failed to disable custom task template: %w", err)
	}
	if err := db.Delete(&tpl).Error; err != nil {
		return fmt.Errorf("failed to delete custom task template: %w", err)
	}

	logger.Logger.Info("Deleted custom task template", zap.String("public_id", publicID))
	return nil
}

func toTemplateItem(t *model.CustomTaskTemplate) dto.TemplateItem {
	return dto.TemplateItem{
		ID:              t.PublicID,
		Title:           t.Title,
		Description:     t.Description,
		ScheduledHour:   t.ScheduledHour,
		ScheduledMinute: t.ScheduledMinute,
		Enabled:         t.Enabled,
	}
}
