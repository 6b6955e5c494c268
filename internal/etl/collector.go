package etl

import (
	"context"
	"errors"
	"sync"

	"github.com/pitchmix/pitchmix/internal/adapters/pipeline/queue"
	"github.com/pitchmix/pitchmix/internal/adapters/repository"
	"github.com/pitchmix/pitchmix/internal/domain/model"
	"github.com/pitchmix/pitchmix/internal/domain/normalize"
	"github.com/pitchmix/pitchmix/internal/domain/registry"
	"github.com/pitchmix/pitchmix/pkg/metrics"
)

// Skip reason labels for counters and stats.
const (
	reasonNoPitcherID  = "no_pitcher_id"
	reasonBadPitcherID = "bad_pitcher_id"
	reasonNoPitchType  = "no_pitch_type"
	reasonMalformed    = "malformed"
	reasonOther        = "other"
)

// collector is the sink behind the normalize workers for one file. It
// resolves pitcher identities, buffers records, and writes batches into
// the file's ingest session. The session's transaction is not safe for
// concurrent use, so all access is serialized under the mutex.
type collector struct {
	mu       sync.Mutex
	session  repository.IngestSession
	resolver registry.Resolver

	batch     []model.Pitch
	batchSize int

	ingested int
	skipped  map[string]int
	failed   error
}

func newCollector(session repository.IngestSession, resolver registry.Resolver, batchSize int) *collector {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &collector{
		session:   session,
		resolver:  resolver,
		batch:     make([]model.Pitch, 0, batchSize),
		batchSize: batchSize,
		skipped:   make(map[string]int),
	}
}

// Emit implements worker.Sink. Once a write fails the collector stays
// failed; the file's transaction is doomed anyway.
func (c *collector) Emit(ctx context.Context, rec normalize.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return c.failed
	}

	pitcherID, err := c.resolver.Resolve(ctx, rec.ExternalPitcherID, rec.PitcherName, rec.PitcherHand)
	if err != nil {
		c.failed = err
		return err
	}

	pitch := rec.Pitch
	pitch.PitcherID = pitcherID
	c.batch = append(c.batch, pitch)
	c.ingested++
	metrics.RecordRowIngested()

	if len(c.batch) >= c.batchSize {
		return c.flushLocked(ctx)
	}
	return nil
}

// Skip implements worker.Sink.
func (c *collector) Skip(_ context.Context, _ queue.Row, reason error) {
	c.countSkip(skipReason(reason))
}

// countSkip records one skipped row under the given reason label.
func (c *collector) countSkip(reason string) {
	c.mu.Lock()
	c.skipped[reason]++
	c.mu.Unlock()
	metrics.RecordRowSkipped(reason)
}

// finish flushes any buffered records. Call after the worker pool drains.
func (c *collector) finish(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failed != nil {
		return c.failed
	}
	return c.flushLocked(ctx)
}

func (c *collector) flushLocked(ctx context.Context) error {
	if len(c.batch) == 0 {
		return nil
	}
	if err := c.session.Insert(ctx, c.batch); err != nil {
		c.failed = err
		return err
	}
	c.batch = c.batch[:0]
	return nil
}

// mergeInto adds the collector's per-file counters to the run stats.
func (c *collector) mergeInto(stats *Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats.RowsIngested += c.ingested
	for reason, n := range c.skipped {
		stats.RowsSkipped[reason] += n
	}
}

func (c *collector) rowsSeen() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.ingested
	for _, v := range c.skipped {
		n += v
	}
	return n
}

func (c *collector) rowsIngested() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingested
}

// skipReason maps a normalize sentinel to its counter label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, normalize.ErrNoPitcherID):
		return reasonNoPitcherID
	case errors.Is(err, normalize.ErrBadPitcherID):
		return reasonBadPitcherID
	case errors.Is(err, normalize.ErrNoPitchType):
		return reasonNoPitchType
	default:
		return reasonOther
	}
}
