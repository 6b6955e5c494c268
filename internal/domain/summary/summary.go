// Package summary builds usage and pitch-location read views. Unlike the
// recommendation engine, no minimum-sample floor and no fallback apply here.
package summary

import (
	"github.com/pitchmix/pitchmix/internal/domain/model"
	"github.com/pitchmix/pitchmix/internal/domain/types"
)

// UsageByCount groups per-count aggregates under their ball/strike key,
// preserving the store's returned ordering (balls, strikes, pitch type
// ascending). Every non-zero group is included.
func UsageByCount(rows []model.CountAggregate) []types.CountUsage {
	var out []types.CountUsage
	for _, row := range rows {
		key := types.CountKey{Balls: row.Balls, Strikes: row.Strikes}
		if len(out) == 0 || out[len(out)-1].Key != key {
			out = append(out, types.CountUsage{Key: key})
		}
		last := &out[len(out)-1]
		last.Pitches = append(last.Pitches, types.PitchUsage{
			PitchType:  row.PitchType,
			Total:      row.Total,
			WhiffPct:   row.WhiffRate(),
			HardHitPct: row.HardHitRate(),
		})
	}
	return out
}

// Location returns the located pitches verbatim together with the arithmetic
// mean of the non-null strike-zone bounds. Averages stay nil when no row
// carries the corresponding bound; an empty input never divides by zero.
func Location(rows []model.LocatedPitch) types.LocationSummary {
	out := types.LocationSummary{
		Pitches: make([]types.LocatedPitch, 0, len(rows)),
	}

	var topSum, botSum float64
	var topN, botN int
	for _, row := range rows {
		if row.SzTop.Valid {
			topSum += row.SzTop.Float64
			topN++
		}
		if row.SzBot.Valid {
			botSum += row.SzBot.Float64
			botN++
		}
		p := types.LocatedPitch{
			PlateX:      row.PlateX,
			PlateZ:      row.PlateZ,
			PitchType:   row.PitchType,
			Description: row.Description,
		}
		if row.Outcome.Valid {
			outcome := row.Outcome.String
			p.Outcome = &outcome
		}
		out.Pitches = append(out.Pitches, p)
	}

	if topN > 0 {
		avg := topSum / float64(topN)
		out.AvgSzTop = &avg
	}
	if botN > 0 {
		avg := botSum / float64(botN)
		out.AvgSzBot = &avg
	}
	return out
}
