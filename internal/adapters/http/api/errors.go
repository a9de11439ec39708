package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrRouteNotFound   = errors.New("route not found")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrUnavailable     = errors.New("service unavailable")
)

// Error kinds written to the "error" field of error responses.
const (
	KindScoreNotFound    = "ScoreNotFound"
	KindValidation       = "ValidationError"
	KindInternal         = "InternalServerError"
	KindBadRequest       = "BadRequest"
	KindPayloadTooLarge  = "PayloadTooLarge"
	KindNotFound         = "NotFound"
	KindMethodNotAllowed = "MethodNotAllowed"
	KindRateLimited      = "RateLimited"
	KindUnavailable      = "ServiceUnavailable"
)

// opError tags an error with the operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.kind != nil && e.err != nil:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	case e.kind != nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	default:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}
