package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"OnTrack/internal/cache"
	"OnTrack/internal/model"
	"OnTrack/internal/service"
	"OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/metrics"
	"OnTrack/storage/mq"
)

// StartDayChangeConsumer 启动应用日变更消费者。
// 收到日界消息后把所有早于新应用日、仍为临时态的记录定格，
// 并为每条定格记录发布完成事件。
func StartDayChangeConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.DayChangeMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal day change message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败继续处理：定格本身幂等，最多重复一次空扫描
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.String("new_app_day", msg.NewAppDay),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing day change",
			zap.String("message_id", msg.MessageID),
			zap.String("previous_app_day", msg.PreviousAppDay),
			zap.String("new_app_day", msg.NewAppDay),
		)

		newAppDay, err := time.ParseInLocation("2006-01-02", msg.NewAppDay, time.Local)
		if err != nil {
			// 无法解析的消息重试也没用，确认掉
			cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("invalid new_app_day %q", msg.NewAppDay)}
		}

		finalized, err := service.Day().FinalizeBefore(ctx, newAppDay)
		if err != nil {
			// 处理失败，取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to finalize days before %s: %w", msg.NewAppDay, err)
		}

		for _, day := range finalized {
			metrics.RecordDayFinalized(ctx)
			if err := PublishDayFinalized(day.Date.Format("2006-01-02"), day.Score); err != nil {
				// 事件是尽力而为，定格已落库，不回滚
				logger.Logger.Warn("Failed to publish day finalized event",
					zap.String("day_date", day.Date.Format("2006-01-02")),
					zap.Error(err),
				)
			}
		}

		// 【幂等性标记】处理完成后标记消息已处理（延长 TTL）
		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		logger.Logger.Info("Day change processed",
			zap.String("new_app_day", msg.NewAppDay),
			zap.Int("finalized_count", len(finalized)),
		)

		return nil
	}

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.DayChangedQueue,
		ConsumerTag:   "day_change_consumer",
		PrefetchCount: 1, // 定格串行处理即可
		Handler:       handler,
	})
}

// StartAllConsumers 启动所有消费者（在 worker 启动时调用）
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"day_change", StartDayChangeConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()
}
