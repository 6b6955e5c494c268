package normalize

import (
	"strings"

	"github.com/pitchmix/pitchmix/internal/domain/model"
)

// defaultPitcherName substitutes for a missing display name.
const defaultPitcherName = "Unknown Pitcher"

// Record is a normalized row: the canonical pitch fields plus the pitcher
// identity candidates needed for registry resolution. The Pitch carries no
// PitcherID yet; the collector fills it in after Resolve.
type Record struct {
	ExternalPitcherID int64
	PitcherName       string
	PitcherHand       string
	Pitch             model.Pitch
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDefaultPitcherName overrides the sentinel used for a missing name.
func WithDefaultPitcherName(name string) Option {
	return func(n *Normalizer) {
		if name != "" {
			n.defaultName = name
		}
	}
}

// Normalizer converts raw CSV rows into Records using a per-file FieldIndex.
type Normalizer struct {
	defaultName string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{defaultName: defaultPitcherName}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Row normalizes one source row against idx. It returns a skip sentinel
// (ErrNoPitcherID, ErrBadPitcherID, ErrNoPitchType) for rows that must not
// be materialized; no partial record is ever produced. All other field
// failures degrade to null, never to an error.
func (n *Normalizer) Row(row []string, idx FieldIndex) (Record, error) {
	rawID := strings.TrimSpace(idx.Get(row, FieldPitcher))
	if rawID == "" {
		return Record{}, ErrNoPitcherID
	}
	extID := IntOrNull(rawID)
	if !extID.Valid {
		return Record{}, ErrBadPitcherID
	}

	pitchType := strings.TrimSpace(idx.Get(row, FieldPitchType))
	if pitchType == "" {
		return Record{}, ErrNoPitchType
	}

	name := strings.TrimSpace(idx.Get(row, FieldPlayerName))
	if name == "" {
		name = n.defaultName
	}

	rec := Record{
		ExternalPitcherID: extID.Int64,
		PitcherName:       name,
		PitcherHand:       strings.TrimSpace(idx.Get(row, FieldPitcherHand)),
		Pitch: model.Pitch{
			GameDate:    StringOrNull(idx.Get(row, FieldGameDate)),
			Inning:      IntOrNull(idx.Get(row, FieldInning)),
			TopBottom:   HalfInning(idx.Get(row, FieldInningTopBot)),
			BatterHand:  StringOrNull(strings.TrimSpace(idx.Get(row, FieldBatterHand))),
			Balls:       IntOrNull(idx.Get(row, FieldBalls)),
			Strikes:     IntOrNull(idx.Get(row, FieldStrikes)),
			PitchType:   pitchType,
			Velocity:    FloatOrNull(idx.Get(row, FieldReleaseSpeed)),
			PlateX:      FloatOrNull(idx.Get(row, FieldPlateX)),
			PlateZ:      FloatOrNull(idx.Get(row, FieldPlateZ)),
			SzTop:       FloatOrNull(idx.Get(row, FieldSzTop)),
			SzBot:       FloatOrNull(idx.Get(row, FieldSzBot)),
			Description: strings.TrimSpace(idx.Get(row, FieldDescription)),
			Outcome:     StringOrNull(strings.TrimSpace(idx.Get(row, FieldEvents))),
			// RunsValue is reserved; always null at ingestion time.
		},
	}
	return rec, nil
}
