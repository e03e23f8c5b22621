package schedule

// 日界调度器：定期用当前时钟刷新应用日，前进时发布变更消息。
// 发布前用 Redis SETNX 去重，多实例部署时只有一个实例真正投放。

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/internal/cache"
	"OnTrack/internal/model"
	"OnTrack/internal/queue"
	"OnTrack/pkg/logger"
)

var (
	daySchedulerOnce sync.Once
	daySchedulerInst *DayScheduler
)

type DayScheduler struct {
	logger   *zap.Logger
	detector *BoundaryDetector
}

func GetDayScheduler() *DayScheduler {
	daySchedulerOnce.Do(func() {
		s := &DayScheduler{logger: logger.Logger}
		s.detector = NewBoundaryDetector(time.Now(), config.Cfg.DayCutoffHour, s.onBoundary)
		s.restoreObservedDay()
		daySchedulerInst = s
	})
	return daySchedulerInst
}

// restoreObservedDay 从 Redis 恢复最近观测到的应用日。
// 进程重启后接续之前的观测点，避免重启瞬间漏掉一次日界。
func (s *DayScheduler) restoreObservedDay() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := cache.GetLastObservedAppDay(ctx)
	if err != nil {
		s.logger.Warn("Failed to restore last observed app day", zap.Error(err))
		return
	}
	if stored == "" {
		return
	}

	day, err := time.ParseInLocation("2006-01-02", stored, time.Local)
	if err != nil {
		s.logger.Warn("Invalid stored app day, ignoring", zap.String("value", stored))
		return
	}

	// 存储值更早说明停机期间越过了日界，重建检测器让下一次刷新补发
	if day.Before(s.detector.Current()) {
		s.detector = NewBoundaryDetector(day.Add(time.Duration(config.Cfg.DayCutoffHour)*time.Hour), config.Cfg.DayCutoffHour, s.onBoundary)
		s.logger.Info("Restored app day observation from cache",
			zap.String("app_day", stored),
		)
	}
}

// Run 阻塞运行刷新循环，直到 ctx 取消。
func (s *DayScheduler) Run(ctx context.Context) {
	interval := time.Duration(config.Cfg.DayBoundaryInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	s.logger.Info("Day boundary scheduler started",
		zap.Int("cutoff_hour", config.Cfg.DayCutoffHour),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 启动时先刷一次，补上停机期间错过的日界
	s.detector.Refresh(time.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Day boundary scheduler stopped")
			return
		case now := <-ticker.C:
			s.detector.Refresh(now)
		}
	}
}

// onBoundary 应用日前进回调：SETNX 去重后发布变更消息并持久化观测点。
func (s *DayScheduler) onBoundary(prev, next time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prevStr := prev.Format("2006-01-02")
	nextStr := next.Format("2006-01-02")

	s.logger.Info("App day advanced",
		zap.String("previous_app_day", prevStr),
		zap.String("new_app_day", nextStr),
	)

	ok, err := cache.TryMarkDayChangePublished(ctx, nextStr)
	if err != nil {
		s.logger.Warn("Failed to check day change published mark, publishing anyway",
			zap.String("new_app_day", nextStr),
			zap.Error(err),
		)
	} else if !ok {
		s.logger.Info("Day change already published by another instance, skipping",
			zap.String("new_app_day", nextStr),
		)
		return
	}

	if err := queue.PublishDayChange(model.DayChangeMessage{
		PreviousAppDay: prevStr,
		NewAppDay:      nextStr,
		OccurredAt:     time.Now().Format(time.RFC3339),
	}); err != nil {
		s.logger.Error("Failed to publish day change message",
			zap.String("new_app_day", nextStr),
			zap.Error(err),
		)
		return
	}

	if err := cache.SetLastObservedAppDay(ctx, nextStr); err != nil {
		s.logger.Warn("Failed to persist last observed app day",
			zap.String("new_app_day", nextStr),
			zap.Error(err),
		)
	}
}
