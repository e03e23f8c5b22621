package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"OnTrack/internal/service"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/metrics"
	"OnTrack/pkg/response"
)

// FullSync 全量同步当前应用日的健康数据
// POST /v1/sync/full
func FullSync(ctx context.Context, c *app.RequestContext) {
	runSync(ctx, c, "full")
}

// QuickSync 快速同步：只刷新饮水和步数
// POST /v1/sync/quick
func QuickSync(ctx context.Context, c *app.RequestContext) {
	runSync(ctx, c, "quick")
}

func runSync(ctx context.Context, c *app.RequestContext, mode string) {
	// 可选 date 参数，缺省同步当前应用日
	date := currentAppDay()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			response.Error(ctx, c, pkgerrors.InvalidDate)
			return
		}
		if parsed.After(currentAppDay()) {
			response.Error(ctx, c, pkgerrors.FutureDate)
			return
		}
		date = parsed
	}

	start := time.Now()

	var report interface{}
	var err error
	if mode == "full" {
		report, err = service.Reconcile().FullSync(ctx, date)
	} else {
		report, err = service.Reconcile().QuickSync(ctx, date)
	}
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordSyncDuration(ctx, mode, time.Since(start).Seconds())
	response.Success(ctx, c, report)
}
