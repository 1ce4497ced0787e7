package tier

import "errors"

// Sentinel kinds for division lookups.
var (
	ErrInvalidTier   = errors.New("invalid tier")
	ErrInvalidBounds = errors.New("invalid tier bounds")
)
