package messaging

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"product-catalogue/internal/search/projection"

	amqp "github.com/rabbitmq/amqp091-go"
)

const pollInterval = 100 * time.Millisecond

type ListenerConfig struct {
	BatchSize int
	PollWait  time.Duration
}

// RabbitListener pulls batches from a durable queue with basic.get. Every
// delivery of the previous batch that was not deleted is requeued at the
// start of the next Receive, so failed messages come back later.
type RabbitListener struct {
	channel *amqp.Channel
	queue   string
	cfg     ListenerConfig

	mu      sync.Mutex
	pending map[uint64]amqp.Delivery
}

func NewRabbitListener(conn *amqp.Connection, queue string, cfg ListenerConfig) (*RabbitListener, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.PollWait <= 0 {
		cfg.PollWait = time.Second
	}

	return &RabbitListener{
		channel: ch,
		queue:   queue,
		cfg:     cfg,
		pending: make(map[uint64]amqp.Delivery),
	}, nil
}

func (l *RabbitListener) Receive(ctx context.Context) ([]projection.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requeuePending(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(l.cfg.PollWait)
	var messages []projection.Message
	for len(messages) < l.cfg.BatchSize {
		delivery, ok, err := l.channel.Get(l.queue, false)
		if err != nil {
			return nil, fmt.Errorf("get from %q: %w", l.queue, err)
		}
		if ok {
			l.pending[delivery.DeliveryTag] = delivery
			messages = append(messages, projection.Message{
				Handle: strconv.FormatUint(delivery.DeliveryTag, 10),
				Body:   delivery.Body,
			})
			continue
		}

		if len(messages) > 0 || time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return messages, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return messages, nil
}

func (l *RabbitListener) Delete(_ context.Context, handle string) error {
	tag, err := strconv.ParseUint(handle, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid handle %q: %w", handle, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delivery, ok := l.pending[tag]
	if !ok {
		return fmt.Errorf("unknown handle %q", handle)
	}
	if err := delivery.Ack(false); err != nil {
		return fmt.Errorf("ack %q: %w", handle, err)
	}
	delete(l.pending, tag)
	return nil
}

func (l *RabbitListener) Close() error {
	return l.channel.Close()
}

func (l *RabbitListener) requeuePending() error {
	for tag, delivery := range l.pending {
		if err := delivery.Nack(false, true); err != nil {
			return fmt.Errorf("requeue %d: %w", tag, err)
		}
		delete(l.pending, tag)
	}
	return nil
}
