package reward

import "errors"

var (
	// ErrInvalidMatchResult is returned for results with negative counts.
	ErrInvalidMatchResult = errors.New("invalid match result")
	// ErrInvalidMode is returned for game modes outside the enumeration.
	ErrInvalidMode = errors.New("invalid game mode")
)
