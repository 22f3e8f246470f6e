package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/company-registry/internal/logger"
	"github.com/baechuer/company-registry/internal/transport/http/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]Check
	now     func() time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  make(map[string]Check),
		now:     time.Now,
	}
}

// WithCheck registers a dependency probed by /readyz.
func (h *HealthHandler) WithCheck(name string, c Check) *HealthHandler {
	if c != nil {
		h.checks[name] = c
	}
	return h
}

// Health handles GET /health (liveness).
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Readyz handles GET /readyz.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			failed[name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		response.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"checks": failed,
		})
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Root handles GET / with a short route listing.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Company Registration API",
		"version": h.version,
		"endpoints": map[string]string{
			"health":  "/health",
			"auth":    "/api/auth",
			"company": "/api/company",
			"metrics": "/metrics",
		},
	})
}
