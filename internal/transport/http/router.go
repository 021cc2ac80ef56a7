package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caseflow/internal/platform/metrics"
	"caseflow/internal/platform/middleware"
	"caseflow/internal/transport/http/shared"
)

// HealthCheck reports the readiness of one dependency.
type HealthCheck func(ctx context.Context) error

// NewRouter wires the command endpoints, health, and metrics exposition.
func NewRouter(h *Handler, logger *slog.Logger, m *metrics.Metrics, checks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Instrument(m))

	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.handleSubmitCase)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.handleGetCase)
			r.Post("/corrections", h.handleCorrections)
			r.Post("/accept", h.handleAccept)
			r.Post("/eject", h.handleEject)
			r.Post("/filter", h.handleFilter)
			r.Post("/materials", h.handleAddMaterials)
			r.Post("/materials/{materialID}/expire", h.handleExpireMaterial)
			r.Post("/summons/{applicationID}/approve", h.handleApproveSummons)
			r.Post("/summons/{applicationID}/reject", h.handleRejectSummons)
		})
	})

	r.Get("/healthz", handleHealthz(checks))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// handleHealthz runs each dependency check with a short deadline and reports
// per-dependency status.
func handleHealthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		shared.WriteJSON(w, status, map[string]any{
			"status":       http.StatusText(status),
			"dependencies": deps,
		})
	}
}
