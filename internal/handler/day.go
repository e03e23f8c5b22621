package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"OnTrack/config"
	"OnTrack/internal/cache"
	"OnTrack/internal/model"
	"OnTrack/internal/model/dto"
	"OnTrack/internal/schedule"
	"OnTrack/internal/service"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/metrics"
	"OnTrack/pkg/response"
)

// currentAppDay 当前应用日：凌晨 cutoff 前仍算前一天。
func currentAppDay() time.Time {
	return schedule.AppDay(time.Now(), config.Cfg.DayCutoffHour)
}

// parseDateParam 解析路径里的日期并拒绝未来日期。
func parseDateParam(c *app.RequestContext) (time.Time, error) {
	raw := c.Param("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, pkgerrors.InvalidDate
	}
	if date.After(currentAppDay()) {
		return time.Time{}, pkgerrors.FutureDate
	}
	return date, nil
}

// GetToday 查询当前应用日的记录，不存在则创建
// GET /v1/days/today
func GetToday(ctx context.Context, c *app.RequestContext) {
	rec, err := service.Day().GetOrCreate(ctx, currentAppDay())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.ToSummary(rec))
}

// GetDay 查询指定日期的记录
// GET /v1/days/:date
func GetDay(ctx context.Context, c *app.RequestContext) {
	date, err := parseDateParam(c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	rec, err := service.Day().GetOrCreate(ctx, date)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.ToSummary(rec))
}

// UpdateNutrition 手动录入营养
// PUT /v1/days/today/nutrition
func UpdateNutrition(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateNutritionRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	rec, err := service.Day().UpdateNutrition(ctx, currentAppDay(), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordScoreComputed(ctx)
	response.Success(ctx, c, service.ToSummary(rec))
}

// UpdateWater 手动录入饮水
// PUT /v1/days/today/water
func UpdateWater(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateWaterRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	rec, err := service.Day().UpdateWater(ctx, currentAppDay(), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordScoreComputed(ctx)
	response.Success(ctx, c, service.ToSummary(rec))
}

// UpdateWorkout 手动录入训练
// PUT /v1/days/today/workout
func UpdateWorkout(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateWorkoutRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	rec, err := service.Day().UpdateWorkout(ctx, currentAppDay(), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordScoreComputed(ctx)
	response.Success(ctx, c, service.ToSummary(rec))
}

// UpdateMile 手动录入每日一英里
// PUT /v1/days/today/mile
func UpdateMile(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateMileRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	rec, err := service.Day().UpdateMile(ctx, currentAppDay(), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordScoreComputed(ctx)
	response.Success(ctx, c, service.ToSummary(rec))
}

// UpdateSleep 手动录入睡眠
// PUT /v1/days/today/sleep
func UpdateSleep(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateSleepRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	rec, err := service.Day().UpdateSleep(ctx, currentAppDay(), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordScoreComputed(ctx)
	response.Success(ctx, c, service.ToSummary(rec))
}

// CompleteTask 完成清单任务
// POST /v1/days/today/tasks/:task_id/complete
func CompleteTask(ctx context.Context, c *app.RequestContext) {
	setTaskStatus(ctx, c, model.TaskStatusDone)
}

// SkipTask 跳过清单任务
// POST /v1/days/today/tasks/:task_id/skip
func SkipTask(ctx context.Context, c *app.RequestContext) {
	setTaskStatus(ctx, c, model.TaskStatusSkipped)
}

// ReopenTask 重置清单任务为未处理
// POST /v1/days/today/tasks/:task_id/reopen
func ReopenTask(ctx context.Context, c *app.RequestContext) {
	setTaskStatus(ctx, c, model.TaskStatusOpen)
}

func setTaskStatus(ctx context.Context, c *app.RequestContext, status model.TaskStatus) {
	taskID := c.Param("task_id")
	if taskID == "" {
		response.Error(ctx, c, pkgerrors.InvalidRequest)
		return
	}

	rec, err := service.Day().SetTaskStatus(ctx, currentAppDay(), taskID, status)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	metrics.RecordTaskTransition(ctx, string(status))
	response.Success(ctx, c, service.ToSummary(rec))
}

// GetTodayScore 轻量查询当前应用日的临时分，优先走缓存，
// 供前台高频刷新，未命中时回退数据库。
// GET /v1/days/today/score
func GetTodayScore(ctx context.Context, c *app.RequestContext) {
	day := currentAppDay()
	dateStr := day.Format("2006-01-02")

	if score, ok, err := cache.GetProvisionalScore(ctx, dateStr); err == nil && ok {
		response.Success(ctx, c, map[string]interface{}{
			"date":   dateStr,
			"score":  score,
			"source": "cache",
		})
		return
	}

	rec, err := service.Day().GetOrCreate(ctx, day)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"date":   dateStr,
		"score":  rec.ScoreProvisional,
		"source": "db",
	})
}

// GetScoreHistory 查询历史分数
// GET /v1/scores/history?from=2025-01-01&to=2025-01-31
func GetScoreHistory(ctx context.Context, c *app.RequestContext) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	to := currentAppDay()
	from := to.AddDate(0, 0, -29) // 默认最近 30 天

	if fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			response.Error(ctx, c, pkgerrors.InvalidDate)
			return
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			response.Error(ctx, c, pkgerrors.InvalidDate)
			return
		}
		to = parsed
	}

	if from.After(to) {
		response.Error(ctx, c, pkgerrors.InvalidDate)
		return
	}

	items, err := service.Day().History(ctx, from, to)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"count": len(items),
	})
}
