// Package worker defines the normalize workers that turn queued source rows
// into canonical pitch records.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/pitchmix/pitchmix/internal/adapters/pipeline/queue"
	"github.com/pitchmix/pitchmix/internal/domain/normalize"
	"github.com/pitchmix/pitchmix/pkg/logger"
	"github.com/pitchmix/pitchmix/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Normalizer converts one raw row into a canonical record or a skip sentinel.
type Normalizer interface {
	Row(row []string, idx normalize.FieldIndex) (normalize.Record, error)
}

// Sink receives normalization outcomes. Emit is called for materialized
// records, Skip for rows rejected by a skip sentinel.
type Sink interface {
	Emit(ctx context.Context, rec normalize.Record) error
	Skip(ctx context.Context, row queue.Row, reason error)
}

// RowSource defines how workers receive rows.
type RowSource interface {
	Dequeue(ctx context.Context) <-chan queue.Row
}

// Worker processes rows from the queue until it is closed or ctx cancels.
type Worker struct {
	source     RowSource
	normalizer Normalizer
	sink       Sink
	name       string
	done       chan struct{}
	logger     logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(source RowSource, normalizer Normalizer, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		source:     source,
		normalizer: normalizer,
		sink:       sink,
		name:       "worker",
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when the queue closes and drains
// or ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	rows := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case row, ok := <-rows:
			if !ok {
				return
			}
			if err := w.processRow(ctx, row); err != nil {
				metrics.RecordWorkerError()
				w.logger.Error(ctx, "error processing row",
					logger.String("file", row.File),
					logger.Int("line", row.Line),
					logger.Error(err),
				)
			}
		}
	}
}

// processRow normalizes one row and routes the outcome to the sink.
func (w *Worker) processRow(ctx context.Context, row queue.Row) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	rec, err := w.normalizer.Row(row.Cells, row.Index)
	if err != nil {
		// Skip sentinels mark rows that must not be materialized; they are
		// routine, not failures.
		w.sink.Skip(ctx, row, err)
		return nil
	}
	if err := w.sink.Emit(ctx, rec); err != nil {
		return fmt.Errorf("emit row %s:%d: %w", row.File, row.Line, err)
	}
	return nil
}

// Pool manages a set of normalize workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers over the shared source.
func NewPool(workerCount int, source RowSource, normalizer Normalizer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(source, normalizer, sink,
			WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has drained and exited, or the timeout
// elapses. The queue must be closed before calling Wait.
func (p *Pool) Wait(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-waitCtx.Done():
			p.logger.Warn(ctx, "worker wait timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool wait: %w", waitCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
