// Package calculator defines the contract every clinical calculator satisfies
// and the registry the service dispatches through.
package calculator

import (
	"context"

	"github.com/okian/scorecalc/internal/domain/score"
)

// Calculator validates a parameter set and produces a normalized result.
// Implementations are stateless and safe for concurrent use.
type Calculator interface {
	// Metadata describes the calculator's inputs and outputs.
	Metadata() Metadata
	// Calculate validates params and computes the result. Invalid input is
	// reported as a *score.ValidationError.
	Calculate(ctx context.Context, params score.Params) (score.Result, error)
}

// Validator is implemented by input structs that carry cross-field rules.
// It runs only after every per-field constraint has passed.
type Validator interface {
	Validate() error
}

// New builds a Calculator from a typed compute function. Parameters are
// decoded strictly into In, checked against its validate tags and then
// against In.Validate when In implements Validator.
func New[In any](meta Metadata, compute func(In) (score.Result, error)) Calculator {
	return &typed[In]{meta: meta, compute: compute}
}

type typed[In any] struct {
	meta    Metadata
	compute func(In) (score.Result, error)
}

func (c *typed[In]) Metadata() Metadata { return c.meta }

func (c *typed[In]) Calculate(_ context.Context, params score.Params) (score.Result, error) {
	var in In
	if err := Decode(params, &in); err != nil {
		return score.Result{}, err
	}
	if err := ValidateStruct(&in); err != nil {
		return score.Result{}, err
	}
	if v, ok := any(&in).(Validator); ok {
		if err := v.Validate(); err != nil {
			return score.Result{}, err
		}
	}
	return c.compute(in)
}
