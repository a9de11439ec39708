package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/okian/scorecalc/internal/domain/score"
)

// Decode copies params into out, a pointer to an input struct whose fields
// carry json tags. Decoding is strict: unknown keys are reported, strings
// are never coerced to numbers and integer fields reject fractional values.
func Decode(params score.Params, out any) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Metadata:   &md,
		Result:     out,
		DecodeHook: integralHook,
	})
	if err != nil {
		return fmt.Errorf("%w: build decoder: %w", score.ErrComputation, err)
	}

	verr := &score.ValidationError{}
	if err := dec.Decode(map[string]any(params)); err != nil {
		for _, fe := range decodeFailures(err) {
			verr.Add(fe.Field, fe.Message)
		}
	}

	sort.Strings(md.Unused)
	for _, key := range md.Unused {
		verr.Add(key, "unknown parameter")
	}
	return verr.Err()
}

var intKinds = map[reflect.Kind]bool{
	reflect.Int: true, reflect.Int8: true, reflect.Int16: true, reflect.Int32: true, reflect.Int64: true,
	reflect.Uint: true, reflect.Uint8: true, reflect.Uint16: true, reflect.Uint32: true, reflect.Uint64: true,
}

// maxIntegral is 2^63, the first float64 that int64 cannot hold.
const maxIntegral = 1 << 63

// integralHook lets 7.0 fill an int field and rejects 7.5.
func integralHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	if !intKinds[to.Kind()] {
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		parsed, err := v.Float64()
		if err != nil {
			return data, nil
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("must be a whole number, got %v", f)
	}
	if f >= maxIntegral || f < -maxIntegral {
		return nil, fmt.Errorf("is out of range for an integer, got %v", f)
	}
	return int64(f), nil
}

var quotedName = regexp.MustCompile(`'([^']*)'`)

// decodeFailures splits a mapstructure error into per-field messages. Each
// line of a decode error names the offending field in single quotes.
func decodeFailures(err error) []score.FieldError {
	var out []score.FieldError
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		// Skip blank lines and the "N error(s) decoding:" header.
		if line == "" || (strings.HasSuffix(line, ":") && !strings.Contains(line, "'")) {
			continue
		}
		m := quotedName.FindStringSubmatchIndex(line)
		if m == nil {
			out = append(out, score.FieldError{Message: line})
			continue
		}
		field := line[m[2]:m[3]]
		msg := strings.TrimSpace(line[m[1]:])
		msg = strings.TrimPrefix(msg, ":")
		out = append(out, score.FieldError{Field: field, Message: friendlyDecodeMessage(strings.TrimSpace(msg))})
	}
	if len(out) == 0 {
		out = append(out, score.FieldError{Message: err.Error()})
	}
	return out
}

func friendlyDecodeMessage(msg string) string {
	switch {
	case strings.HasPrefix(msg, "expected type"):
		// "expected type 'float64', got unconvertible type 'string', value: 'x'"
		if types := quotedName.FindAllStringSubmatch(msg, 2); len(types) == 2 {
			return fmt.Sprintf("has the wrong type: expected %s, got %s", wireType(types[0][1]), wireType(types[1][1]))
		}
		return "has the wrong type"
	case msg == "":
		return "could not be decoded"
	default:
		return msg
	}
}

func wireType(goType string) string {
	goType = strings.TrimPrefix(goType, "*")
	switch {
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		return "integer"
	case strings.HasPrefix(goType, "float"), goType == "json.Number":
		return "number"
	case goType == "bool":
		return "boolean"
	case strings.HasPrefix(goType, "map"):
		return "object"
	case strings.HasPrefix(goType, "[]"):
		return "array"
	default:
		return goType
	}
}
