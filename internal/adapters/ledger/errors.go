package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrNotFound       = errors.New("player not found")
	ErrInvalidLimit   = errors.New("invalid ledger limit")
	ErrAlreadySettled = errors.New("match already settled")
	ErrInvalidCredit  = errors.New("invalid credit")
)
