package draw

import "errors"

var (
	// ErrEmptyPool means the pool has no active entries at all.
	ErrEmptyPool = errors.New("pool has no active entries")
	// ErrInvalidCount is returned for non-positive draw counts.
	ErrInvalidCount = errors.New("count must be positive")
	// ErrInvalidWeight is returned for active entries with a non-positive or
	// non-finite weight.
	ErrInvalidWeight = errors.New("entry weight must be a positive finite number")
)
