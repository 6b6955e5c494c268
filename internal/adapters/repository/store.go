// Package repository defines the pitch event store interface and errors.
package repository

import (
	"context"

	"github.com/pitchmix/pitchmix/internal/domain/model"
)

// SituationFilter selects pitches by pitcher and count. An empty BatterHand
// pools both hands.
type SituationFilter struct {
	PitcherID  int64
	Balls      int
	Strikes    int
	BatterHand string
}

// Store provides append-only writes and filtered aggregate reads over the
// canonical pitch event collection.
type Store interface {
	// GetOrCreatePitcher resolves a pitcher by external id, creating the
	// record on first sighting. Name and hand are ignored on repeat
	// sightings; first sighting wins.
	GetOrCreatePitcher(ctx context.Context, externalID int64, name, hand string) (int64, error)

	// ListPitchers returns all pitchers ordered by display name.
	ListPitchers(ctx context.Context) ([]model.Pitcher, error)

	// InsertPitches appends a batch of pitch events inside one transaction.
	InsertPitches(ctx context.Context, pitches []model.Pitch) error

	// BeginIngest opens a transaction-scoped session for loading one
	// source file. Everything written through the session commits or
	// rolls back together, so a crash mid-file never corrupts
	// previously committed data.
	BeginIngest(ctx context.Context) (IngestSession, error)

	// AggregateBySituation returns per-pitch-type totals, whiff counts, and
	// hard-hit counts for the filtered situation, keeping only groups with
	// at least minTotal events. Groups are ordered by pitch type so that
	// equal-score candidates resolve deterministically downstream.
	AggregateBySituation(ctx context.Context, f SituationFilter, minTotal int) ([]model.PitchTypeAggregate, error)

	// AggregateByCount returns the same aggregate grouped by
	// (balls, strikes, pitch type) for one pitcher, with no per-group
	// minimum, ordered by balls, strikes, pitch type ascending.
	AggregateByCount(ctx context.Context, pitcherID int64, batterHand string) ([]model.CountAggregate, error)

	// LocatedPitches returns raw located pitches for the filtered
	// situation, capped at limit. The cap truncates silently.
	LocatedPitches(ctx context.Context, f SituationFilter, limit int) ([]model.LocatedPitch, error)

	// CountPitches returns the number of stored pitch events.
	CountPitches(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}

// IngestSession scopes one source file's writes to a single transaction.
// Sessions are not safe for concurrent use.
type IngestSession interface {
	// GetOrCreatePitcher resolves a pitcher within the session's
	// transaction, creating the record on first sighting.
	GetOrCreatePitcher(ctx context.Context, externalID int64, name, hand string) (int64, error)

	// Insert appends a batch of pitch events to the session.
	Insert(ctx context.Context, pitches []model.Pitch) error

	// Commit makes the session's writes durable.
	Commit() error

	// Rollback discards the session's writes. Safe after Commit.
	Rollback() error
}
