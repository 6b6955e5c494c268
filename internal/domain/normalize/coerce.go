package normalize

import (
	"database/sql"
	"strconv"
	"strings"
)

// IntOrNull parses s as an integer. Any empty or unparseable input yields an
// invalid NullInt64 rather than an error; absence is never zero.
func IntOrNull(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// FloatOrNull parses s as a real number with the same best-effort contract
// as IntOrNull.
func FloatOrNull(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// StringOrNull wraps s as a NullString, treating "" as null.
func StringOrNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// HalfInning normalizes a source half-inning label. The value is trimmed and
// case-folded; a leading "t" maps to Top, a leading "b" to Bottom, anything
// else to null.
func HalfInning(raw string) sql.NullString {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(t, "t"):
		return sql.NullString{String: "Top", Valid: true}
	case strings.HasPrefix(t, "b"):
		return sql.NullString{String: "Bottom", Valid: true}
	default:
		return sql.NullString{}
	}
}
