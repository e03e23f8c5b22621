package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 评分与生命周期指标
	ScoreComputedTotal metric.Int64Counter
	DayFinalizedTotal  metric.Int64Counter

	// 健康数据同步指标
	SyncTotal           metric.Int64Counter
	SyncDuration        metric.Float64Histogram
	SyncCategoryFailure metric.Int64Counter

	// 清单任务指标
	TaskTransitionTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("ontrack")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.ScoreComputedTotal, err = meter.Int64Counter(
		"score_computed_total",
		metric.WithDescription("Total number of daily score recomputations"),
		metric.WithUnit("{score}"),
	)
	if err != nil {
		return err
	}

	metrics.DayFinalizedTotal, err = meter.Int64Counter(
		"day_finalized_total",
		metric.WithDescription("Total number of day records finalized"),
		metric.WithUnit("{day}"),
	)
	if err != nil {
		return err
	}

	metrics.SyncTotal, err = meter.Int64Counter(
		"health_sync_total",
		metric.WithDescription("Total number of health data sync runs"),
		metric.WithUnit("{sync}"),
	)
	if err != nil {
		return err
	}

	metrics.SyncDuration, err = meter.Float64Histogram(
		"health_sync_duration_seconds",
		metric.WithDescription("Time spent running a health data sync in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.SyncCategoryFailure, err = meter.Int64Counter(
		"health_sync_category_failure_total",
		metric.WithDescription("Total number of per-category fetch failures during sync"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return err
	}

	metrics.TaskTransitionTotal, err = meter.Int64Counter(
		"checklist_task_transition_total",
		metric.WithDescription("Total number of checklist task status transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordScoreComputed 记录一次评分重算
func (m *OTelMetrics) RecordScoreComputed(ctx context.Context) {
	m.ScoreComputedTotal.Add(ctx, 1)
}

// RecordDayFinalized 记录一次定格
func (m *OTelMetrics) RecordDayFinalized(ctx context.Context) {
	m.DayFinalizedTotal.Add(ctx, 1)
}

// RecordSync 记录一次同步
func (m *OTelMetrics) RecordSync(ctx context.Context, mode string) {
	m.SyncTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

// RecordSyncDuration 记录同步耗时
func (m *OTelMetrics) RecordSyncDuration(ctx context.Context, mode string, seconds float64) {
	m.SyncDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

// RecordSyncCategoryFailure 记录单类别抓取失败
func (m *OTelMetrics) RecordSyncCategoryFailure(ctx context.Context, category string) {
	m.SyncCategoryFailure.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordTaskTransition 记录清单任务状态迁移
func (m *OTelMetrics) RecordTaskTransition(ctx context.Context, status string) {
	m.TaskTransitionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
