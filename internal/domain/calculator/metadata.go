package calculator

import (
	"fmt"

	"github.com/okian/scorecalc/internal/domain/score"
)

// ParamType is the wire type of a parameter.
type ParamType string

// Parameter types.
const (
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeString  ParamType = "string"
)

// Parameter documents one input field.
type Parameter struct {
	Name         string    `json:"name"`
	Type         ParamType `json:"type"`
	Required     bool      `json:"required"`
	Description  string    `json:"description"`
	Options      []string  `json:"options,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	// ExclusiveMin means Min itself is rejected; values must exceed it.
	ExclusiveMin bool      `json:"exclusive_min,omitempty"`
}

// Optional returns a copy of p that is not required.
func (p Parameter) Optional() Parameter {
	p.Required = false
	return p
}

// Above returns a copy of p whose lower bound is exclusive.
func (p Parameter) Above() Parameter {
	p.ExclusiveMin = true
	return p
}

// In returns a copy of p measured in unit.
func (p Parameter) In(unit string) Parameter {
	p.Unit = unit
	return p
}

// Integer declares a required integer parameter bounded by [lo, hi].
func Integer(name, description string, lo, hi float64) Parameter {
	return Parameter{Name: name, Type: TypeInteger, Required: true, Description: description, Min: &lo, Max: &hi}
}

// Number declares a required numeric parameter bounded by [lo, hi].
func Number(name, description string, lo, hi float64) Parameter {
	return Parameter{Name: name, Type: TypeNumber, Required: true, Description: description, Min: &lo, Max: &hi}
}

// Enum declares a required categorical parameter.
func Enum(name, description string, options ...string) Parameter {
	return Parameter{Name: name, Type: TypeString, Required: true, Description: description, Options: options}
}

// YesNo declares a required yes/no parameter.
func YesNo(name, description string) Parameter {
	return Enum(name, description, "yes", "no")
}

// Stage is one member of a calculator's stage enumeration.
type Stage struct {
	Label       string `json:"stage"`
	Description string `json:"description"`
}

// Output describes the primary result value.
type Output struct {
	Type ParamType `json:"type"`
	Unit string    `json:"unit"`
	// Min and Max bound numeric results inclusively. Text results are
	// unbounded.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Range declares a numeric output bounded by [lo, hi].
func Range(unit string, lo, hi float64) Output {
	return Output{Type: TypeNumber, Unit: unit, Min: &lo, Max: &hi}
}

// AtLeast declares a numeric output bounded below by lo.
func AtLeast(unit string, lo float64) Output {
	return Output{Type: TypeNumber, Unit: unit, Min: &lo}
}

// Metadata describes a calculator for discovery and for output checks.
type Metadata struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Version     string       `json:"version"`
	Parameters  []Parameter  `json:"parameters"`
	Output      Output       `json:"output"`
	Stages      []Stage      `json:"stages"`
	Example     score.Params `json:"example"`
	References  []string     `json:"references,omitempty"`
}

// HasStage reports whether label is in the stage enumeration.
func (m Metadata) HasStage(label string) bool {
	for _, s := range m.Stages {
		if s.Label == label {
			return true
		}
	}
	return false
}

// Required returns the names of the required parameters.
func (m Metadata) Required() []string {
	var out []string
	for _, p := range m.Parameters {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// CheckResult verifies r against the declared output contract: the stage
// must be enumerated and a numeric value must lie inside the output range.
func (m Metadata) CheckResult(r score.Result) error {
	if !m.HasStage(r.Stage) {
		return fmt.Errorf("%w: %q", ErrUndeclaredStage, r.Stage)
	}
	switch {
	case r.Value.IsZero():
		return ErrEmptyValue
	case r.Value.IsNumber():
		v, _ := r.Value.Float()
		if m.Output.Min != nil && v < *m.Output.Min {
			return fmt.Errorf("%w: %v < %v", ErrValueOutOfRange, v, *m.Output.Min)
		}
		if m.Output.Max != nil && v > *m.Output.Max {
			return fmt.Errorf("%w: %v > %v", ErrValueOutOfRange, v, *m.Output.Max)
		}
	}
	return nil
}
