// Package types contains common response types used across the application.
package types

// Pitcher is a pitcher row as returned by list queries.
type Pitcher struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ThrowsHand string `json:"throws_hand"`
}

// HistoricalOutcomes summarizes the winning pitch type's sample.
type HistoricalOutcomes struct {
	SampleSize       int     `json:"sample_size"`
	WhiffPct         float64 `json:"whiff_pct"`
	InPlayHardHitPct float64 `json:"in_play_hard_hit_pct"`
}

// Recommendation is the scored pitch call for a situation.
type Recommendation struct {
	RecommendedPitchType string             `json:"recommended_pitch_type"`
	Confidence           float64            `json:"confidence"`
	Rationale            []string           `json:"rationale"`
	HistoricalOutcomes   HistoricalOutcomes `json:"historical_outcomes"`
}

// PitchUsage is one pitch type's share within a ball/strike count.
type PitchUsage struct {
	PitchType  string  `json:"pitch_type"`
	Total      int     `json:"total"`
	WhiffPct   float64 `json:"whiff_pct"`
	HardHitPct float64 `json:"hard_hit_pct"`
}

// CountKey identifies a ball/strike count. The string rendering used by the
// JSON surface is produced at the boundary only.
type CountKey struct {
	Balls   int
	Strikes int
}

// CountUsage pairs a count with its ordered pitch-type summaries.
type CountUsage struct {
	Key     CountKey
	Pitches []PitchUsage
}

// LocatedPitch is one plotted pitch in a location summary.
type LocatedPitch struct {
	PlateX      float64 `json:"plate_x"`
	PlateZ      float64 `json:"plate_z"`
	PitchType   string  `json:"pitch_type"`
	Description string  `json:"description"`
	Outcome     *string `json:"outcome"`
}

// LocationSummary carries located pitches plus mean strike-zone bounds.
// The averages are nil when no row carried the corresponding bound.
type LocationSummary struct {
	Pitches  []LocatedPitch
	AvgSzTop *float64
	AvgSzBot *float64
}
