package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/userapi/userapi/internal/middleware"
)

// readyTimeout bounds the dependency checks in Readyz.
const readyTimeout = 3 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db     HealthChecker
	cache  HealthChecker
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
// Pass a nil cache when the user cache is disabled.
func NewHealthHandler(db, cache HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 whenever the process can serve HTTP.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// The database is mandatory; the cache only counts when configured.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{
		"postgres": h.check(ctx, "postgres", h.db, "not configured"),
		"redis":    h.check(ctx, "redis", h.cache, "disabled"),
	}

	healthy := checks["postgres"] == "ok"
	if h.cache != nil && checks["redis"] != "ok" {
		healthy = false
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}

// check pings c. Failure details go to the log only; the response may be public.
func (h *HealthHandler) check(ctx context.Context, name string, c HealthChecker, absent string) string {
	if c == nil {
		return absent
	}
	if err := c.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed",
			"dependency", name,
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return "error"
	}
	return "ok"
}
