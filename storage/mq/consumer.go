package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"OnTrack/config"
	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
	mqotel "OnTrack/pkg/mq"
)

type MessageHandler func([]byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费，ctx 取消时退出。处理器返回 SkipMessageError 时确认并跳过
// （重复消息），其他错误 Nack 重新入队。
func Consume(ctx context.Context, opts ConsumeOptions) error {
	conn := Connection()
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	var msgs <-chan amqp.Delivery
	if config.Cfg.TracingEnabled {
		msgs, err = mqotel.ConsumeWithTracing(
			ch,
			config.Cfg.ServiceName,
			opts.Queue,
			opts.ConsumerTag,
			false, // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
	} else {
		msgs, err = ch.Consume(
			opts.Queue,
			opts.ConsumerTag,
			false, // auto-ack = false
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	return consumeLoop(ctx, opts, msgs)
}

// consumeLoop 投递循环。ctx 取消时正常返回（优雅关闭），
// 投递通道被关闭（连接断开）时返回错误交给上层决定重启。
func consumeLoop(ctx context.Context, opts ConsumeOptions, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info("Consumer context canceled, stopping",
				zap.String("queue", opts.Queue),
				zap.String("consumer_tag", opts.ConsumerTag),
			)
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", opts.Queue)
			}

			if err := opts.Handler(msg.Body); err != nil {
				var skip *pkgerrors.SkipMessageError
				if errors.As(err, &skip) {
					logger.Logger.Info("Skipped message",
						zap.String("queue", opts.Queue),
						zap.String("reason", skip.Reason),
					)
					msg.Ack(false)
					continue
				}

				logger.Logger.Error("Failed to process message",
					zap.String("queue", opts.Queue),
					zap.String("consumer_tag", opts.ConsumerTag),
					zap.Error(err),
				)
				msg.Nack(false, true) // requeue = true
				continue
			}

			msg.Ack(false)
		}
	}
}
