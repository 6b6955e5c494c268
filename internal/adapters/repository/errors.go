package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("pitcher not found")
	ErrInvalidLimit = errors.New("invalid pitch limit")
	ErrClosed       = errors.New("store closed")
)
