package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

// ScoresHandler serves the calculator catalog.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new catalog handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// ScoreSummary is one row of the catalog listing.
type ScoreSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Version     string `json:"version,omitempty"`
}

// ScoreListResponse is the body of GET /api/scores.
type ScoreListResponse struct {
	Scores []ScoreSummary `json:"scores"`
	Total  int            `json:"total"`
}

// CategoriesResponse is the body of GET /api/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}

// ValidateResponse is the body of GET /api/scores/{id}/validate.
type ValidateResponse struct {
	ScoreID    string `json:"score_id"`
	Valid      bool   `json:"valid"`
	Parameters int    `json:"parameters"`
	Message    string `json:"message"`
}

// HandleList handles GET /api/scores?category=&search= requests.
func (h *ScoresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	metas := h.deps.List(r.Context(), calculator.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	resp := ScoreListResponse{Scores: make([]ScoreSummary, 0, len(metas)), Total: len(metas)}
	for _, m := range metas {
		resp.Scores = append(resp.Scores, ScoreSummary{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Category:    m.Category,
			Version:     m.Version,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleScore handles GET /api/scores/{id} and GET /api/scores/{id}/validate.
func (h *ScoresHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/scores/"), "/")
	if id == "" || (rest != "" && rest != "validate") {
		notFound(w, r)
		return
	}

	meta, err := h.deps.Metadata(r.Context(), id)
	if err != nil {
		writeCalculatorError(w, id, err)
		return
	}
	if rest == "validate" {
		writeJSON(w, http.StatusOK, ValidateResponse{
			ScoreID:    id,
			Valid:      true,
			Parameters: len(meta.Parameters),
			Message:    fmt.Sprintf("Score '%s' is registered and ready", id),
		})
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// HandleCategories handles GET /api/categories requests.
func (h *ScoresHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	cats := h.deps.Categories(r.Context())
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats, Total: len(cats)})
}

// writeCalculatorError maps dispatcher errors onto the error body.
func writeCalculatorError(w http.ResponseWriter, id string, err error) {
	var verr *score.ValidationError
	switch {
	case errors.Is(err, score.ErrUnknownCalculator):
		writeError(w, http.StatusNotFound, KindScoreNotFound,
			fmt.Sprintf("Score '%s' not found", id), map[string]string{"score_id": id})
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, KindValidation,
			"Invalid parameters", map[string]any{"score_id": id, "fields": verr.Fields})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, KindUnavailable, ErrUnavailable.Error(), nil)
	default:
		// The cause stays in the service log; clients get a generic message.
		writeError(w, http.StatusInternalServerError, KindInternal,
			"Internal error calculating score", map[string]string{"score_id": id})
	}
}
