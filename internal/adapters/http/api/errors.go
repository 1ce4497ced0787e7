package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/shootout/internal/adapters/ledger"
	service "github.com/okian/shootout/internal/app"
	"github.com/okian/shootout/internal/catalog"
	"github.com/okian/shootout/internal/domain/dedupe"
	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/outcome"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// kindError tags an error with the operation that produced it.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind tags err with kind, keeping both matchable with errors.Is.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// statusFor maps an error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, catalog.ErrUnknownItem), errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrAlreadySettled), errors.Is(err, dedupe.ErrConflict):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, draw.ErrEmptyPool), errors.Is(err, draw.ErrInvalidWeight):
		return http.StatusUnprocessableEntity, "unfulfillable"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, tier.ErrInvalidTier),
		errors.Is(err, stats.ErrInvalidStatVector),
		errors.Is(err, outcome.ErrInvalidDraw),
		errors.Is(err, reward.ErrInvalidMatchResult),
		errors.Is(err, reward.ErrInvalidMode),
		errors.Is(err, ledger.ErrInvalidLimit),
		errors.Is(err, draw.ErrInvalidCount):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
