// Package normalize maps loosely-structured Statcast-style CSV rows into
// canonical pitch events.
//
// Header resolution is alias-driven: each canonical field declares an ordered
// list of acceptable source column names, evaluated once per file against the
// observed header. Header cells are matched case-sensitively after stripping
// a leading byte-order marker and surrounding quotes.
package normalize

import "strings"

// Field names a canonical column of the pitch-event schema.
type Field string

// Canonical fields.
const (
	FieldPitcher      Field = "pitcher"
	FieldPitchType    Field = "pitch_type"
	FieldPlayerName   Field = "player_name"
	FieldPitcherHand  Field = "p_throws"
	FieldGameDate     Field = "game_date"
	FieldBatterHand   Field = "stand"
	FieldBalls        Field = "balls"
	FieldStrikes      Field = "strikes"
	FieldReleaseSpeed Field = "release_speed"
	FieldPlateX       Field = "plate_x"
	FieldPlateZ       Field = "plate_z"
	FieldSzTop        Field = "sz_top"
	FieldSzBot        Field = "sz_bot"
	FieldInning       Field = "inning"
	FieldInningTopBot Field = "inning_topbot"
	FieldDescription  Field = "description"
	FieldEvents       Field = "events"
)

// fieldAliases maps each canonical field to its acceptable source column
// names, in lookup order. Most fields accept exactly their canonical name;
// pitch_type additionally falls back to the descriptive pitch_name column.
var fieldAliases = map[Field][]string{
	FieldPitcher:      {"pitcher"},
	FieldPitchType:    {"pitch_type", "pitch_name"},
	FieldPlayerName:   {"player_name"},
	FieldPitcherHand:  {"p_throws"},
	FieldGameDate:     {"game_date"},
	FieldBatterHand:   {"stand"},
	FieldBalls:        {"balls"},
	FieldStrikes:      {"strikes"},
	FieldReleaseSpeed: {"release_speed"},
	FieldPlateX:       {"plate_x"},
	FieldPlateZ:       {"plate_z"},
	FieldSzTop:        {"sz_top"},
	FieldSzBot:        {"sz_bot"},
	FieldInning:       {"inning"},
	FieldInningTopBot: {"inning_topbot"},
	FieldDescription:  {"description"},
	FieldEvents:       {"events"},
}

// requiredFields must resolve for a source to be ingestable at all.
var requiredFields = []Field{FieldPitcher, FieldPitchType}

// FieldIndex is an immutable per-file mapping from canonical field to column
// position. Absent fields are simply not present in the map.
type FieldIndex map[Field]int

// SanitizeHeader strips a leading BOM, surrounding whitespace, and
// surrounding quote characters from a raw header cell.
func SanitizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(name)
	return strings.Trim(name, `"`)
}

// BuildFieldIndex resolves the alias table against an observed header.
// It returns ErrMissingRequiredColumn when the pitcher-identity or
// pitch-type column cannot be resolved; no per-row attempt is made for
// such a source.
func BuildFieldIndex(header []string) (FieldIndex, error) {
	positions := make(map[string]int, len(header))
	for i, raw := range header {
		name := SanitizeHeader(raw)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	idx := make(FieldIndex, len(fieldAliases))
	for field, aliases := range fieldAliases {
		for _, alias := range aliases {
			if pos, ok := positions[alias]; ok {
				idx[field] = pos
				break
			}
		}
	}

	for _, req := range requiredFields {
		if _, ok := idx[req]; !ok {
			return nil, ErrMissingRequiredColumn
		}
	}
	return idx, nil
}

// Get returns the raw cell value for a field, or "" when the field did not
// resolve or the row is short.
func (x FieldIndex) Get(row []string, f Field) string {
	pos, ok := x[f]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// Has reports whether the field resolved against the header.
func (x FieldIndex) Has(f Field) bool {
	_, ok := x[f]
	return ok
}
