package stats

import "errors"

// ErrInvalidStatVector marks a stat vector or total that cannot be used.
var ErrInvalidStatVector = errors.New("invalid stat vector")
