// Package queue defines the contract for feeding raw source rows through
// the ingestion pipeline.
//
// The queue is an in-memory bounded buffer between the CSV reader and the
// normalize workers. Enqueue never blocks; a full queue reports
// backpressure to the producer instead.
package queue

import (
	"context"
	"sync"

	"github.com/pitchmix/pitchmix/internal/domain/normalize"
	"github.com/pitchmix/pitchmix/pkg/metrics"
)

// Default queue configuration constants.
const defaultCapacity = 10_000

// Row is one raw CSV row together with the per-file field index needed to
// normalize it.
type Row struct {
	File  string
	Line  int
	Cells []string
	Index normalize.FieldIndex
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a row to the queue.
	// Returns false if the queue is full or closed and the row was dropped.
	Enqueue(ctx context.Context, r Row) bool

	// Dequeue returns a channel that receives rows as they become
	// available. The channel closes when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Row

	// Len returns the current number of queued rows.
	Len(ctx context.Context) int

	// Close stops the queue. After closing, no new rows can be enqueued.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	rows     chan Row
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.rows = make(chan Row, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a row to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Row) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.rows <- r:
		metrics.RecordQueueEnqueue()
		size := len(q.rows)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that receives rows as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Row {
	out := make(chan Row)
	go func() {
		defer close(out)
		for r := range q.rows {
			select {
			case out <- r:
				metrics.RecordQueueDequeue()
				size := len(q.rows)
				metrics.UpdateQueueSize(size)
				metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued rows.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.rows)
}

// Close stops the queue. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.rows)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
