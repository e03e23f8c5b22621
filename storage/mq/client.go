package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/pkg/logger"
	mqotel "OnTrack/pkg/mq"
)

// 生命周期事件走一个 topic 交换机。
// scheduler 发布日界变更，worker 消费定格；定格完成事件同样入队，
// 供后续的通知 / 导出消费方订阅。
const (
	EventsExchange = "ontrack.events"

	DayChangedQueue      = "lifecycle.day.changed"
	DayChangedRoutingKey = "lifecycle.day.changed"

	DayFinalizedRoutingKey = "lifecycle.day.finalized"
)

var conn *amqp.Connection

func Init() error {
	var err error
	conn, err = amqp.Dial(config.Cfg.GetRabbitMQURL())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	if err := declareTopology(); err != nil {
		return err
	}

	// 没有注册 MeterProvider 时拿到的是 noop 实现，调用无副作用
	if err := mqotel.InitMQMetrics(otel.Meter("ontrack-mq")); err != nil {
		logger.Logger.Warn("Failed to initialize MQ metrics", zap.Error(err))
	}

	logger.Logger.Info("RabbitMQ connected",
		zap.String("exchange", EventsExchange),
	)
	return nil
}

// Connection 返回当前连接，供消费侧开独立 channel。
func Connection() *amqp.Connection {
	return conn
}

func Close() error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// declareTopology 声明交换机与队列，幂等。
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel for topology: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		DayChangedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		DayChangedQueue,
		DayChangedRoutingKey,
		EventsExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}
