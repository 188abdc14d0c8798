// Package httptransport assembles the HTTP surface: per-domain handlers on a
// shared chi router behind the platform middleware chain.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifeline/internal/platform/middleware"
	"lifeline/pkg/platform/httputil"
)

// Registrar is any domain handler that can mount its routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker func(r *http.Request) error

// Config carries the router's dependencies.
type Config struct {
	Logger   *slog.Logger
	Handlers []Registrar
	// Health checks run on /healthz; any failure turns the response 503.
	Health map[string]HealthChecker
}

// NewRouter wires middleware, domain routes, health and metrics endpoints.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		for _, h := range cfg.Handlers {
			h.Register(api)
		}
	})

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checks)+1)
		report["status"] = "ok"

		for name, check := range checks {
			if err := check(r); err != nil {
				status = http.StatusServiceUnavailable
				report["status"] = "degraded"
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		httputil.WriteJSON(w, status, report)
	}
}
