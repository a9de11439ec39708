package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/pkg/metrics"
)

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status      string `json:"status"`
	Calculators int    `json:"calculators"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	n := len(h.deps.List(r.Context(), calculator.Filter{}))
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Calculators: n})
}

// MetricsHandler serves the Prometheus exposition from the service registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
