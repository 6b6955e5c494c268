package normalize

import "errors"

// Sentinel kinds for normalization outcomes. Row-level sentinels mark rows
// that are skipped, not failed; file-level sentinels reject a whole source.
var (
	// ErrMissingRequiredColumn rejects a source whose header lacks the
	// pitcher-identity or pitch-type column.
	ErrMissingRequiredColumn = errors.New("required column missing from header")

	// ErrNoPitcherID skips a row with a blank pitcher-identity value.
	ErrNoPitcherID = errors.New("row has no pitcher id")

	// ErrBadPitcherID skips a row whose pitcher-identity value is not an integer.
	ErrBadPitcherID = errors.New("row has non-numeric pitcher id")

	// ErrNoPitchType skips a row with a blank pitch type.
	ErrNoPitchType = errors.New("row has no pitch type")
)
