// Package etl loads Statcast-style CSV exports into the pitch event store.
//
// Each file runs through the same pipeline: a reader parses rows and feeds
// a bounded queue, normalize workers map rows to canonical records, and a
// collector resolves pitcher identities and batches inserts. One file is
// one transaction; a file that fails mid-way leaves nothing behind.
package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pitchmix/pitchmix/internal/adapters/pipeline/queue"
	"github.com/pitchmix/pitchmix/internal/adapters/pipeline/worker"
	"github.com/pitchmix/pitchmix/internal/adapters/repository"
	"github.com/pitchmix/pitchmix/internal/domain/normalize"
	"github.com/pitchmix/pitchmix/internal/domain/registry"
	"github.com/pitchmix/pitchmix/pkg/logger"
	"github.com/pitchmix/pitchmix/pkg/metrics"
)

// Default runner configuration constants.
const (
	defaultQueueSize  = 10_000
	defaultBatchSize  = 500
	enqueueRetryDelay = time.Millisecond
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithQueueSize sets the per-file row queue capacity.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of normalize workers per file.
func WithWorkerCount(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workerCount = n
		}
	}
}

// WithBatchSize sets how many records the collector buffers before writing
// them into the file's transaction.
func WithBatchSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner loads every *.csv file under a directory into the store.
type Runner struct {
	store       repository.Store
	dir         string
	queueSize   int
	workerCount int
	batchSize   int
	normalizer  *normalize.Normalizer
	logger      logger.Logger
}

// NewRunner creates a Runner over store reading from dir.
func NewRunner(store repository.Store, dir string, opts ...Option) *Runner {
	r := &Runner{
		store:       store,
		dir:         dir,
		queueSize:   defaultQueueSize,
		workerCount: runtime.NumCPU(),
		batchSize:   defaultBatchSize,
		normalizer:  normalize.New(),
		logger:      logger.Get().Named("etl"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run ingests every CSV file in the directory, in name order. A file that
// cannot be read or lacks required columns is skipped whole; the run
// continues with the next file. The returned Stats describe the full run
// even when ctx cancels part-way.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats(uuid.New().String())

	files, err := filepath.Glob(filepath.Join(r.dir, "*.csv"))
	if err != nil {
		return stats, fmt.Errorf("scan csv directory: %w", err)
	}
	sort.Strings(files)
	stats.FilesFound = len(files)

	r.logger.Info(ctx, "starting ingestion run",
		logger.String("runID", stats.RunID),
		logger.String("dir", r.dir),
		logger.Int("files", len(files)),
		logger.Int("workers", r.workerCount),
	)
	if len(files) == 0 {
		r.logger.Warn(ctx, "no csv files found", logger.String("dir", r.dir))
	}

	for _, path := range files {
		if ctx.Err() != nil {
			stats.finish()
			return stats, fmt.Errorf("ingestion run: %w", ctx.Err())
		}
		if err := r.processFile(ctx, path, stats); err != nil {
			stats.FilesSkipped++
			metrics.RecordFileSkipped()
			r.logger.Warn(ctx, "skipping file",
				logger.String("file", filepath.Base(path)),
				logger.Error(err),
			)
			continue
		}
		stats.FilesProcessed++
		metrics.RecordFileProcessed()
	}

	stats.finish()
	r.report(ctx, stats)
	return stats, nil
}

// processFile runs one CSV file through the normalize pipeline inside a
// single store transaction.
func (r *Runner) processFile(ctx context.Context, path string, stats *Stats) error {
	start := time.Now()
	defer func() {
		metrics.RecordIngestFileDuration(float64(time.Since(start).Milliseconds()))
	}()

	name := filepath.Base(path)
	r.logger.Info(ctx, "loading csv", logger.String("file", name))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may be ragged; short rows read as null

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	idx, err := normalize.BuildFieldIndex(header)
	if err != nil {
		return err
	}

	session, err := r.store.BeginIngest(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = session.Rollback() }()

	resolver := registry.New(session)
	col := newCollector(session, resolver, r.batchSize)
	q := queue.NewInMemoryQueue(queue.WithCapacity(r.queueSize))
	pool := worker.NewPool(r.workerCount, q, r.normalizer, col)
	pool.Start(ctx)

	readErr := r.readRows(ctx, reader, name, idx, q, col, stats)

	_ = q.Close()
	if err := pool.Wait(ctx); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}
	if err := col.finish(ctx); err != nil {
		return err
	}
	col.mergeInto(stats)

	if err := session.Commit(); err != nil {
		return err
	}

	r.logger.Info(ctx, "finished csv",
		logger.String("file", name),
		logger.Int("rows", col.rowsSeen()),
		logger.Int("ingested", col.rowsIngested()),
		logger.String("elapsed", time.Since(start).String()),
	)
	return nil
}

// readRows parses data rows and feeds the queue, retrying on backpressure.
// A row the CSV parser rejects is counted and skipped; it does not fail
// the file.
func (r *Runner) readRows(ctx context.Context, reader *csv.Reader, file string, idx normalize.FieldIndex, q queue.Queue, col *collector, stats *Stats) error {
	line := 1 // header was line 1
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			col.countSkip(reasonMalformed)
			continue
		}

		metrics.RecordRowRead()
		stats.RowsRead++

		row := queue.Row{File: file, Line: line, Cells: cells, Index: idx}
		for !q.Enqueue(ctx, row) {
			if ctx.Err() != nil {
				return fmt.Errorf("enqueue row %s:%d: %w", file, line, ctx.Err())
			}
			time.Sleep(enqueueRetryDelay)
		}
	}
}

// report logs the final run statistics.
func (r *Runner) report(ctx context.Context, stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsRead) / stats.Duration.Seconds()
	}

	r.logger.Info(ctx, "ingestion run complete",
		logger.String("runID", stats.RunID),
		logger.Int("filesFound", stats.FilesFound),
		logger.Int("filesProcessed", stats.FilesProcessed),
		logger.Int("filesSkipped", stats.FilesSkipped),
		logger.Int("rowsRead", stats.RowsRead),
		logger.Int("rowsIngested", stats.RowsIngested),
		logger.Int("rowsSkipped", stats.TotalSkipped()),
		logger.Any("skippedByReason", stats.RowsSkipped),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond),
	)
}
