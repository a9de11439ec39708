// Package score defines the shapes shared by every calculator: the parameter
// set a caller supplies and the result a calculator returns.
package score

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Params is the raw, caller-supplied parameter set for one invocation.
// Values are whatever the transport decoded (json.Number, float64, int,
// string, bool or nil); calculators decode them into typed inputs.
type Params map[string]any

type valueKind uint8

const (
	kindNone valueKind = iota
	kindNumber
	kindText
)

// Value is the primary result of a calculation: either a number or a
// categorical text value. The zero Value is empty and marshals to null.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{kind: kindNumber, num: v} }

// Text returns a categorical Value.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsText reports whether v holds a text value.
func (v Value) IsText() bool { return v.kind == kindText }

// IsZero reports whether v is empty.
func (v Value) IsZero() bool { return v.kind == kindNone }

// Float returns the numeric value and whether v is numeric.
func (v Value) Float() (float64, bool) { return v.num, v.kind == kindNumber }

// String renders the value for logs and narratives.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON encodes a number as a JSON number and text as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("score value %v is not representable in JSON", v.num)
		}
		return json.Marshal(v.num)
	case kindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number, string or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("score value must be a number or string: %w", err)
		}
		*v = Number(f)
		return nil
	}
}

// Details is a calculator-specific extension attached to a Result. Each
// calculator declares its own concrete type.
type Details interface {
	ScoreDetails()
}

// Result is the normalized output of a successful calculation.
type Result struct {
	Value            Value   `json:"result"`
	Unit             string  `json:"unit"`
	Interpretation   string  `json:"interpretation"`
	Stage            string  `json:"stage"`
	StageDescription string  `json:"stage_description"`
	Details          Details `json:"details,omitempty"`
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
