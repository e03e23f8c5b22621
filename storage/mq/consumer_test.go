package mq

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	pkgerrors "OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeAcknowledger 记录确认动作，替代真实的 AMQP channel。
type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error { f.acks++; return nil }

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func TestConsumeLoopStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- consumeLoop(ctx, ConsumeOptions{
			Queue:   "test_queue",
			Handler: func([]byte) error { return nil },
		}, msgs)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("consumeLoop after cancel: %v, want nil (graceful stop)", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumeLoop did not stop after context cancellation")
	}
}

func TestConsumeLoopAckSemantics(t *testing.T) {
	handler := func(body []byte) error {
		switch string(body) {
		case "ok":
			return nil
		case "dup":
			return &pkgerrors.SkipMessageError{Reason: "duplicate message"}
		default:
			return errors.New("handler failed")
		}
	}

	acks := []*fakeAcknowledger{{}, {}, {}}
	msgs := make(chan amqp.Delivery, 3)
	for i, body := range []string{"ok", "dup", "bad"} {
		msgs <- amqp.Delivery{
			Acknowledger: acks[i],
			DeliveryTag:  uint64(i + 1),
			Body:         []byte(body),
		}
	}
	close(msgs)

	err := consumeLoop(context.Background(), ConsumeOptions{
		Queue:   "test_queue",
		Handler: handler,
	}, msgs)
	if err == nil {
		t.Fatal("closed delivery channel should surface an error")
	}

	if acks[0].acks != 1 || acks[0].nacks != 0 {
		t.Fatalf("successful message: acks=%d nacks=%d, want 1/0", acks[0].acks, acks[0].nacks)
	}
	// 幂等检查命中的重复消息确认掉，不重试
	if acks[1].acks != 1 || acks[1].nacks != 0 {
		t.Fatalf("skipped message: acks=%d nacks=%d, want 1/0", acks[1].acks, acks[1].nacks)
	}
	// 处理失败的消息 Nack 并重新入队
	if acks[2].acks != 0 || acks[2].nacks != 1 || !acks[2].requeue {
		t.Fatalf("failed message: acks=%d nacks=%d requeue=%v, want 0/1/true",
			acks[2].acks, acks[2].nacks, acks[2].requeue)
	}
}
