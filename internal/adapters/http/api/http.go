// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/score"
)

const defaultMaxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Calculate runs the calculator registered under id.
	Calculate(ctx context.Context, id string, params score.Params) (score.Result, error)

	// Read operations expose the calculator catalog.
	List(ctx context.Context, f calculator.Filter) []calculator.Metadata
	Metadata(ctx context.Context, id string) (calculator.Metadata, error)
	Categories(ctx context.Context) []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	scoresHandler    *ScoresHandler
	calculateHandler *CalculateHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes caps calculation request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		scoresHandler:    NewScoresHandler(deps),
		calculateHandler: NewCalculateHandler(deps, o.maxBodyBytes),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/categories", MetricsMiddleware(s.scoresHandler.HandleCategories, "categories"))
	mux.HandleFunc("/api/scores", MetricsMiddleware(s.scoresHandler.HandleList, "scores"))
	mux.HandleFunc("/api/scores/", MetricsMiddleware(s.scoresHandler.HandleScore, "score"))
	// Everything else under /api/ is /api/{score_id}/calculate or a 404.
	mux.HandleFunc("/api/", MetricsMiddleware(s.calculateHandler.HandleCalculate, "calculate"))
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string, details any) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: message, Details: details})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "", nil)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, KindNotFound, "No route for "+r.URL.Path, nil)
}
