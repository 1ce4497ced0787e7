package outcome

import "errors"

// ErrInvalidDraw is returned for supplied draws outside [0,1).
var ErrInvalidDraw = errors.New("draw must be in [0,1)")
