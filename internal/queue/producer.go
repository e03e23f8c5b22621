package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"OnTrack/internal/model"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/snowflake"
	"OnTrack/storage/mq"
)

// PublishDayChange 发布应用日变更消息。scheduler 检测到日界后调用，
// worker 消费触发过期日的定格。
func PublishDayChange(msg model.DayChangeMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("new_app_day", msg.NewAppDay),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("day_change_%d", id)
	}
	if msg.OccurredAt == "" {
		msg.OccurredAt = time.Now().Format(time.RFC3339)
	}

	err := mq.PublishMessage(
		mq.EventsExchange,
		mq.DayChangedRoutingKey,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish day change message",
			zap.String("message_id", msg.MessageID),
			zap.String("previous_app_day", msg.PreviousAppDay),
			zap.String("new_app_day", msg.NewAppDay),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published day change message",
		zap.String("message_id", msg.MessageID),
		zap.String("previous_app_day", msg.PreviousAppDay),
		zap.String("new_app_day", msg.NewAppDay),
	)

	return nil
}

// PublishDayFinalized 发布定格完成事件，供通知 / 导出消费方订阅。
func PublishDayFinalized(dayDate string, scoreFinal int) error {
	id, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	event := model.DayFinalizedEvent{
		MessageID:  fmt.Sprintf("day_finalized_%d", id),
		DayDate:    dayDate,
		ScoreFinal: scoreFinal,
		OccurredAt: time.Now().Format(time.RFC3339),
	}

	err = mq.PublishMessage(
		mq.EventsExchange,
		mq.DayFinalizedRoutingKey,
		event,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish day finalized event",
			zap.String("day_date", dayDate),
			zap.Int("score_final", scoreFinal),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published day finalized event",
		zap.String("message_id", event.MessageID),
		zap.String("day_date", dayDate),
		zap.Int("score_final", scoreFinal),
	)

	return nil
}
