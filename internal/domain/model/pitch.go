// Package model contains domain models passed between layers.
package model

import "database/sql"

// Pitcher is the canonical pitcher identity.
type Pitcher struct {
	ID         int64  // surrogate key assigned by the store
	ExternalID int64  // immutable natural key from source data (MLBAM id)
	Name       string // display name, first sighting wins
	ThrowsHand string // "L", "R", or empty when unknown
}

// Pitch is one canonical pitch event. Optional source fields use sql.Null
// types so that "absent" never collapses to zero.
type Pitch struct {
	PitcherID   int64
	GameDate    sql.NullString // opaque source date, unvalidated
	Inning      sql.NullInt64
	TopBottom   sql.NullString // "Top", "Bottom", or null
	BatterHand  sql.NullString // "L", "R", or null
	Balls       sql.NullInt64
	Strikes     sql.NullInt64
	PitchType   string // required; rows without it are never materialized
	Velocity    sql.NullFloat64
	PlateX      sql.NullFloat64
	PlateZ      sql.NullFloat64
	SzTop       sql.NullFloat64
	SzBot       sql.NullFloat64
	Description string         // result-of-pitch label, may be empty
	Outcome     sql.NullString // end-of-plate-appearance label
	RunsValue   sql.NullFloat64
}

// PitchTypeAggregate is one grouped row from a situational aggregate query.
type PitchTypeAggregate struct {
	PitchType string
	Total     int
	Whiffs    int
	HardHits  int
}

// WhiffRate returns whiffs/total, or 0 for an empty group.
func (a PitchTypeAggregate) WhiffRate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Whiffs) / float64(a.Total)
}

// HardHitRate returns hardHits/total, or 0 for an empty group.
func (a PitchTypeAggregate) HardHitRate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.HardHits) / float64(a.Total)
}

// CountAggregate is one grouped row from the per-count usage query.
type CountAggregate struct {
	Balls   int
	Strikes int
	PitchTypeAggregate
}

// LocatedPitch is one raw pitch with plate-crossing coordinates, returned
// verbatim for strike-zone rendering.
type LocatedPitch struct {
	PlateX      float64
	PlateZ      float64
	SzTop       sql.NullFloat64
	SzBot       sql.NullFloat64
	PitchType   string
	Description string
	Outcome     sql.NullString
}
