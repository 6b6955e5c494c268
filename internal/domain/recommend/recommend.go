// Package recommend turns situational pitch aggregates into a ranked
// recommendation with a fallback cascade and a confidence estimate.
package recommend

import (
	"context"
	"fmt"

	"github.com/pitchmix/pitchmix/internal/domain/model"
	"github.com/pitchmix/pitchmix/internal/domain/types"
)

// Default engine configuration constants.
const (
	defaultMinSampleSize = 5
	defaultPitchType     = "FF"
	defaultConfidence    = 0.5
	confidenceFloor      = 0.55
	confidenceCeiling    = 0.95
	insufficientDataNote = "Insufficient historical data for this situation; defaulting to four-seam fastball."
)

// Situation is the filter tuple a recommendation is computed for.
// An empty BatterHand pools both hands.
type Situation struct {
	PitcherID  int64
	Balls      int
	Strikes    int
	BatterHand string
}

// Aggregator is the store capability the engine consumes: grouped pitch-type
// aggregates for a situation, keeping only groups with at least minTotal
// events, ordered deterministically by pitch type.
type Aggregator interface {
	AggregateBySituation(ctx context.Context, s Situation, minTotal int) ([]model.PitchTypeAggregate, error)
}

// Stage identifies which step of the fallback cascade produced a result.
type Stage string

// Cascade stages, attempted in order, each at most once.
const (
	StageExact   Stage = "exact"
	StagePooled  Stage = "pooled"
	StageDefault Stage = "default"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinSampleSize sets the minimum per-group total for a pitch type to be
// considered.
func WithMinSampleSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minSampleSize = n
		}
	}
}

// WithDefaultPitchType sets the pitch type returned when no data qualifies
// at any cascade stage.
func WithDefaultPitchType(pt string) Option {
	return func(e *Engine) {
		if pt != "" {
			e.defaultPitch = pt
		}
	}
}

// Engine scores situational aggregates into recommendations.
type Engine struct {
	agg           Aggregator
	minSampleSize int
	defaultPitch  string
}

// New creates an Engine reading aggregates from agg.
func New(agg Aggregator, opts ...Option) *Engine {
	e := &Engine{
		agg:           agg,
		minSampleSize: defaultMinSampleSize,
		defaultPitch:  defaultPitchType,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend runs the cascade for s: exact batter hand first, then all hands
// pooled, then the low-confidence default. Each stage is attempted at most
// once. The returned Stage reports which step produced the result.
func (e *Engine) Recommend(ctx context.Context, s Situation) (types.Recommendation, Stage, error) {
	rows, err := e.agg.AggregateBySituation(ctx, s, e.minSampleSize)
	if err != nil {
		return types.Recommendation{}, "", err
	}
	if len(rows) > 0 {
		return e.pick(rows), StageExact, nil
	}

	if s.BatterHand != "" {
		pooled := s
		pooled.BatterHand = ""
		rows, err = e.agg.AggregateBySituation(ctx, pooled, e.minSampleSize)
		if err != nil {
			return types.Recommendation{}, "", err
		}
		if len(rows) > 0 {
			return e.pick(rows), StagePooled, nil
		}
	}

	return types.Recommendation{
		RecommendedPitchType: e.defaultPitch,
		Confidence:           defaultConfidence,
		Rationale:            []string{insufficientDataNote},
		HistoricalOutcomes:   types.HistoricalOutcomes{},
	}, StageDefault, nil
}

// pick selects the candidate with the strictly greatest score. Ties keep the
// first-encountered candidate; the aggregate query orders groups by pitch
// type, so equal scores resolve to the lexically-first type.
func (e *Engine) pick(rows []model.PitchTypeAggregate) types.Recommendation {
	best := rows[0]
	bestScore := Score(best)
	for _, row := range rows[1:] {
		if s := Score(row); s > bestScore {
			best = row
			bestScore = s
		}
	}

	whiff := best.WhiffRate()
	hardHit := best.HardHitRate()
	return types.Recommendation{
		RecommendedPitchType: best.PitchType,
		Confidence:           Confidence(bestScore),
		Rationale: []string{
			fmt.Sprintf("%s has a whiff rate of %.0f%% and hard-hit in-play rate of %.0f%% in similar situations.",
				best.PitchType, whiff*100, hardHit*100),
		},
		HistoricalOutcomes: types.HistoricalOutcomes{
			SampleSize:       best.Total,
			WhiffPct:         whiff,
			InPlayHardHitPct: hardHit,
		},
	}
}

// Score is the rate heuristic: whiff rate minus hard-hit rate, in [-1, 1].
func Score(a model.PitchTypeAggregate) float64 {
	return a.WhiffRate() - a.HardHitRate()
}

// Confidence linearly remaps a score into the [0.55, 0.95] band. The mapping
// is a heuristic scalar, not a calibrated probability.
func Confidence(score float64) float64 {
	c := score + defaultConfidence
	if c < confidenceFloor {
		return confidenceFloor
	}
	if c > confidenceCeiling {
		return confidenceCeiling
	}
	return c
}
