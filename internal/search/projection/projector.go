// Package projection drains product events from the channel and applies
// them to the read store.
//
// Delivery is at-least-once and unordered. Upsert and delete by sku are
// idempotent, so duplicates converge; reordering does not (an older update
// redelivered after a delete resurrects the product). Events carry the
// product version if a version gate is ever needed.
package projection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"product-catalogue/internal/products"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultIdleBackoff  = 5 * time.Second
	DefaultErrorBackoff = 10 * time.Second
)

// Message is one delivery. Handle identifies it to Listener.Delete.
type Message struct {
	Handle string
	Body   []byte
}

type Listener interface {
	// Receive returns up to a batch of messages, waiting a bounded time.
	Receive(ctx context.Context) ([]Message, error)
	// Delete acknowledges a message so it is not redelivered.
	Delete(ctx context.Context, handle string) error
}

// Store is the write side of the read model.
type Store interface {
	Upsert(ctx context.Context, product products.Product) error
	Delete(ctx context.Context, sku string) error
}

type Config struct {
	IdleBackoff  time.Duration
	ErrorBackoff time.Duration
}

// Metrics counts processed messages by event type and result.
type Metrics struct {
	Messages *prometheus.CounterVec
}

func NewMetrics() Metrics {
	return Metrics{
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_projection_messages_total",
			Help: "Product events handled by the projection, by event type and result.",
		}, []string{"type", "result"}),
	}
}

type Projector struct {
	listener Listener
	store    Store
	logger   *slog.Logger
	cfg      Config
	metrics  Metrics
}

func New(listener Listener, store Store, logger *slog.Logger, cfg Config, metrics Metrics) *Projector {
	if cfg.IdleBackoff <= 0 {
		cfg.IdleBackoff = DefaultIdleBackoff
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = DefaultErrorBackoff
	}
	return &Projector{
		listener: listener,
		store:    store,
		logger:   logger,
		cfg:      cfg,
		metrics:  metrics,
	}
}

// Run polls until ctx is cancelled. Failures are logged, never returned.
func (p *Projector) Run(ctx context.Context) {
	p.logger.Info("projection started")
	for {
		wait := p.cfg.IdleBackoff
		if err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("projection stopped")
				return
			}
			p.logger.Error("projection poll failed", "error", err, "retry_in", p.cfg.ErrorBackoff.String())
			wait = p.cfg.ErrorBackoff
		}

		select {
		case <-ctx.Done():
			p.logger.Info("projection stopped")
			return
		case <-time.After(wait):
		}
	}
}

// Poll handles one batch. Only receive and acknowledge failures are
// returned; a message that fails to apply stays unacknowledged.
func (p *Projector) Poll(ctx context.Context) error {
	messages, err := p.listener.Receive(ctx)
	if err != nil {
		return fmt.Errorf("receive: %w", err)
	}

	for _, msg := range messages {
		if err := p.Apply(ctx, msg.Body); err != nil {
			continue
		}
		if err := p.listener.Delete(ctx, msg.Handle); err != nil {
			return fmt.Errorf("acknowledge %s: %w", msg.Handle, err)
		}
	}
	return nil
}

// Apply decodes one payload and writes it to the store.
func (p *Projector) Apply(ctx context.Context, body []byte) error {
	event, err := products.DecodeEvent(body)
	if err != nil {
		p.count("unknown", "invalid")
		p.logger.Error("decode event failed", "error", err)
		return err
	}

	switch event.Type {
	case products.EventCreated, products.EventUpdated:
		err = p.store.Upsert(ctx, *event.Product)
	case products.EventDeleted:
		err = p.store.Delete(ctx, *event.SKU)
	}
	if err != nil {
		p.count(string(event.Type), "failed")
		p.logger.Error("apply event failed", "event_type", event.Type, "sku", event.Key(), "error", err)
		return fmt.Errorf("apply %s %q: %w", event.Type, event.Key(), err)
	}

	p.count(string(event.Type), "applied")
	p.logger.Debug("event applied", "event_type", event.Type, "sku", event.Key())
	return nil
}

func (p *Projector) count(eventType, result string) {
	if p.metrics.Messages != nil {
		p.metrics.Messages.WithLabelValues(eventType, result).Inc()
	}
}
