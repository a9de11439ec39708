package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/scorecalc/internal/domain/score"
)

// CalculateHandler handles POST /api/{score_id}/calculate.
type CalculateHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewCalculateHandler creates a new calculation handler.
func NewCalculateHandler(deps Dependencies, maxBodyBytes int64) *CalculateHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &CalculateHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleCalculate decodes the parameter object and runs the calculator.
func (h *CalculateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"

	id, ok := calculateID(r.URL.Path)
	if !ok {
		notFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	params, err := decodeParams(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, KindPayloadTooLarge,
				WrapKind(op, ErrPayloadTooLarge, err).Error(), nil)
			return
		}
		writeError(w, http.StatusBadRequest, KindBadRequest, WrapKind(op, ErrBadRequest, err).Error(), nil)
		return
	}

	res, err := h.deps.Calculate(r.Context(), id, params)
	if err != nil {
		writeCalculatorError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// calculateID extracts score_id from /api/{score_id}/calculate.
func calculateID(path string) (string, bool) {
	id, rest, ok := strings.Cut(strings.TrimPrefix(path, "/api/"), "/")
	if !ok || id == "" || rest != "calculate" {
		return "", false
	}
	return id, true
}

// decodeParams reads one JSON object. An empty body or null yields an
// empty parameter set so the calculator can report its missing fields.
func decodeParams(body io.Reader) (score.Params, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return score.Params{}, nil
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errors.New("unexpected data after JSON object")
	}

	switch v := raw.(type) {
	case nil:
		return score.Params{}, nil
	case map[string]any:
		return score.Params(v), nil
	default:
		return nil, fmt.Errorf("request body must be a JSON object, got %T", raw)
	}
}
