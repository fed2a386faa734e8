// Package eventbus is an in-process stand-in for the event queue. It
// implements both the catalogue Publisher and the projection Listener with
// the same at-least-once contract as the RabbitMQ adapters: a received
// message that is not deleted is delivered again on a later Receive.
package eventbus

import (
	"context"
	"strconv"
	"sync"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search/projection"

	"github.com/google/uuid"
)

type entry struct {
	id   string
	body []byte
}

type Queue struct {
	mu        sync.Mutex
	batchSize int
	ready     []entry
	inflight  map[string]entry
	seq       uint64
}

func New(batchSize int) *Queue {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Queue{batchSize: batchSize, inflight: make(map[string]entry)}
}

func (q *Queue) Publish(_ context.Context, event products.ProductEvent) error {
	body, err := event.Encode()
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.ready = append(q.ready, entry{id: uuid.NewString(), body: body})
	return nil
}

func (q *Queue) Receive(_ context.Context) ([]projection.Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for handle, e := range q.inflight {
		q.ready = append(q.ready, e)
		delete(q.inflight, handle)
	}

	n := min(q.batchSize, len(q.ready))
	messages := make([]projection.Message, 0, n)
	for _, e := range q.ready[:n] {
		q.seq++
		handle := strconv.FormatUint(q.seq, 10)
		q.inflight[handle] = e
		messages = append(messages, projection.Message{Handle: handle, Body: e.body})
	}
	q.ready = q.ready[n:]
	return messages, nil
}

func (q *Queue) Delete(_ context.Context, handle string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inflight, handle)
	return nil
}

// Len returns the number of messages not yet deleted.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ready) + len(q.inflight)
}
