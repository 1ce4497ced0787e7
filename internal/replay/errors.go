package replay

import "errors"

var (
	// ErrInvalidConfig is returned for replay inputs that cannot be drawn.
	ErrInvalidConfig = errors.New("invalid replay config")
	// ErrMismatch is returned when the replayed items differ from the recorded ones.
	ErrMismatch = errors.New("replayed draw does not match record")
)
