package calculator

import "errors"

// Output contract violations. The dispatcher reports them as computation
// failures.
var (
	ErrUndeclaredStage = errors.New("stage is not in the declared enumeration")
	ErrValueOutOfRange = errors.New("result value outside the declared range")
	ErrEmptyValue      = errors.New("result value is empty")
)
