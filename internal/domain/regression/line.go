// Package regression fits straight lines to small sample series.
package regression

import (
	"fmt"
	"math"
)

// Point is one (x, y) observation.
type Point struct {
	X float64
	Y float64
}

// Line is an ordinary least-squares fit y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
	// RSquared is the coefficient of determination. A series whose y values
	// are all equal is fitted exactly and reports 1.
	RSquared float64
	N        int
}

// At evaluates the fitted line at x.
func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

// FitLine fits y = a*x + b by ordinary least squares. With exactly two
// points the slope is the closed form (y2-y1)/(x2-x1).
func FitLine(points []Point) (Line, error) {
	n := len(points)
	if n < 2 {
		return Line{}, fmt.Errorf("%w: got %d", ErrInsufficientPoints, n)
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return Line{}, fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}

	if n == 2 {
		dx := points[1].X - points[0].X
		if dx == 0 {
			return Line{}, ErrNoVariance
		}
		slope := (points[1].Y - points[0].Y) / dx
		return Line{
			Slope:     slope,
			Intercept: points[0].Y - slope*points[0].X,
			RSquared:  1,
			N:         2,
		}, nil
	}

	// Coordinates are shifted to the first point so a constant series sums
	// to exactly zero instead of picking up rounding from the mean.
	x0, y0 := points[0].X, points[0].Y
	var meanX, meanY float64
	for _, p := range points {
		meanX += p.X - x0
		meanY += p.Y - y0
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxx, sxy, syy float64
	for _, p := range points {
		dx, dy := p.X-x0-meanX, p.Y-y0-meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return Line{}, ErrNoVariance
	}

	slope := sxy / sxx
	r2 := 1.0
	if syy > 0 {
		r2 = (sxy * sxy) / (sxx * syy)
	}
	return Line{
		Slope:     slope,
		Intercept: y0 + meanY - slope*(x0+meanX),
		RSquared:  r2,
		N:         n,
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
