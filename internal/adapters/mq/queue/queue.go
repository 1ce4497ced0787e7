// Package queue buffers finished matches between the API and the settlement
// workers.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Settlement is the payload flowing through the queue.
type Settlement = model.Settlement

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds s without blocking. It fails with ErrQueueFull under
	// backpressure and ErrQueueClosed after Close.
	Enqueue(ctx context.Context, s Settlement) error

	// Dequeue returns a channel of settlements. The channel is closed once
	// the queue is closed and drained, or ctx is done. Callers cancel ctx
	// when they stop reading.
	Dequeue(ctx context.Context) <-chan Settlement

	// Len returns the number of pending settlements.
	Len(ctx context.Context) int

	// Close stops accepting settlements. Pending ones can still be dequeued.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Settlement
	capacity int
	mu       sync.RWMutex
	closed   bool
	onDrop   func(Settlement)
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Settlement, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0, q.capacity)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Settlement) error { //nolint:gocritic // hugeParam: value semantics for channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case q.items <- s:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items), q.capacity)
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrQueueFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Settlement {
	out := make(chan Settlement)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- s:
					metrics.RecordQueueDequeue()
					metrics.UpdateQueueSize(len(q.items), q.capacity)
				case <-ctx.Done():
					q.drop(s)
					return
				}
			}
		}
	}()
	return out
}

// drop reports a settlement taken off the queue that no reader accepted.
func (q *InMemoryQueue) drop(s Settlement) { //nolint:gocritic // hugeParam: value semantics for channel
	metrics.RecordErrorByComponent("queue", "dropped")
	if q.onDrop != nil {
		q.onDrop(s)
	}
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.items)
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close implements Queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
