package regression

import "errors"

var (
	// ErrInsufficientPoints is returned when fewer than two points are supplied.
	ErrInsufficientPoints = errors.New("regression: at least two points are required")
	// ErrNoVariance is returned when every point shares the same x value.
	ErrNoVariance = errors.New("regression: x values have no variance")
	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("regression: non-finite coordinate")
)
