package metrics

import (
	"context"
)

// 包级便捷入口。指标未初始化（如测试环境）时所有记录都是无操作。

// RecordScoreComputed 记录一次评分重算
func RecordScoreComputed(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.RecordScoreComputed(ctx)
	}
}

// RecordDayFinalized 记录一次定格
func RecordDayFinalized(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.RecordDayFinalized(ctx)
	}
}

// RecordSync 记录一次同步
func RecordSync(ctx context.Context, mode string) {
	if m := GetMetrics(); m != nil {
		m.RecordSync(ctx, mode)
	}
}

// RecordSyncDuration 记录同步耗时
func RecordSyncDuration(ctx context.Context, mode string, seconds float64) {
	if m := GetMetrics(); m != nil {
		m.RecordSyncDuration(ctx, mode, seconds)
	}
}

// RecordSyncCategoryFailure 记录单类别抓取失败
func RecordSyncCategoryFailure(ctx context.Context, category string) {
	if m := GetMetrics(); m != nil {
		m.RecordSyncCategoryFailure(ctx, category)
	}
}

// RecordTaskTransition 记录清单任务状态迁移
func RecordTaskTransition(ctx context.Context, status string) {
	if m := GetMetrics(); m != nil {
		m.RecordTaskTransition(ctx, status)
	}
}
