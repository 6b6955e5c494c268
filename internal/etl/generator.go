package etl

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Synthetic data ranges, loosely matching real Statcast distributions.
const (
	velocityMin   = 72.0
	velocityRange = 28.0
	plateXSpread  = 1.2
	plateZMin     = 0.8
	plateZRange   = 3.2
	szTopBase     = 3.3
	szBotBase     = 1.55
	szJitter      = 0.25
	whiffOdds     = 5 // 1 in N swings is a whiff
	inPlayOdds    = 4 // 1 in N pitches ends the at-bat
)

var (
	samplePitchTypes = []string{"FF", "SL", "CH", "CU", "SI"}
	sampleHands      = []string{"L", "R"}
	sampleNames      = []string{
		"Logan Webb", "Zack Wheeler", "Corbin Burnes",
		"Framber Valdez", "Tarik Skubal", "Pablo Lopez",
	}
	sampleDescriptions = []string{
		"ball", "called_strike", "foul", "swinging_strike", "swinging_strike_blocked",
	}
	sampleOutcomes = []string{
		"single", "double", "triple", "home_run", "field_out", "strikeout",
	}
)

// GeneratorConfig controls synthetic CSV generation.
type GeneratorConfig struct {
	Pitchers int
	Rows     int
	Seed     int64
}

// WriteSampleCSV writes a synthetic Statcast-style CSV to path so the
// pipeline can be exercised without a real data export. Generation is
// deterministic for a given seed.
func WriteSampleCSV(path string, cfg GeneratorConfig) error {
	if cfg.Pitchers < 1 {
		cfg.Pitchers = len(sampleNames)
	}
	if cfg.Rows < 1 {
		cfg.Rows = 1000
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"game_date", "pitcher", "player_name", "p_throws", "stand",
		"inning", "inning_topbot", "balls", "strikes",
		"pitch_type", "release_speed", "plate_x", "plate_z",
		"sz_top", "sz_bot", "description", "events",
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	base := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < cfg.Rows; i++ {
		p := rng.Intn(cfg.Pitchers)
		desc := sampleDescriptions[rng.Intn(len(sampleDescriptions))]
		if rng.Intn(whiffOdds) == 0 {
			desc = "swinging_strike"
		}
		outcome := ""
		if rng.Intn(inPlayOdds) == 0 {
			outcome = sampleOutcomes[rng.Intn(len(sampleOutcomes))]
		}

		row := []string{
			base.AddDate(0, 0, rng.Intn(180)).Format("2006-01-02"),
			strconv.Itoa(600000 + p),
			sampleNames[p%len(sampleNames)],
			sampleHands[p%len(sampleHands)],
			sampleHands[rng.Intn(len(sampleHands))],
			strconv.Itoa(1 + rng.Intn(9)),
			[]string{"Top", "Bot"}[rng.Intn(2)],
			strconv.Itoa(rng.Intn(4)),
			strconv.Itoa(rng.Intn(3)),
			samplePitchTypes[rng.Intn(len(samplePitchTypes))],
			formatFloat(velocityMin + rng.Float64()*velocityRange),
			formatFloat(-plateXSpread + rng.Float64()*2*plateXSpread),
			formatFloat(plateZMin + rng.Float64()*plateZRange),
			formatFloat(szTopBase + (rng.Float64()-0.5)*szJitter),
			formatFloat(szBotBase + (rng.Float64()-0.5)*szJitter),
			desc,
			outcome,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush sample csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
