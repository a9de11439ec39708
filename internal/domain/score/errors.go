package score

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Callers classify failures with errors.Is.
var (
	// ErrUnknownCalculator means no calculator is registered under the id.
	ErrUnknownCalculator = errors.New("unknown calculator")
	// ErrInvalidParameters means the caller supplied an invalid parameter set.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrComputation means the calculation failed for reasons unrelated to input.
	ErrComputation = errors.New("computation failed")
)

// FieldError names one offending parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every parameter violation found for one call.
// It matches ErrInvalidParameters under errors.Is.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Invalid returns a ValidationError for a single field.
func Invalid(field, format string, args ...any) *ValidationError {
	e := &ValidationError{}
	e.Add(field, fmt.Sprintf(format, args...))
	return e
}

// Add records a violation for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Addf records a formatted violation for field.
func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Err returns e when it holds at least one violation, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidParameters.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidParameters) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameters
}
