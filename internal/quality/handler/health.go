package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dqengine/internal/quality/transform"
	"dqengine/pkg/platform/httputil"
	"dqengine/pkg/requestcontext"
)

const (
	serviceName        = "data-quality-engine"
	healthCheckTimeout = 2 * time.Second
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health reports whether the engine's stores are reachable.
type Health struct {
	checks []HealthCheck
	logger *slog.Logger
}

// NewHealth constructs a Health handler. With no checks it always reports healthy.
func NewHealth(logger *slog.Logger, checks ...HealthCheck) *Health {
	return &Health{checks: checks, logger: logger}
}

// Register mounts GET /health.
func (h *Health) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when every check passes and 503 otherwise.
func (h *Health) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: requestcontext.Now(ctx).UTC().Format(transform.TimestampLayout),
	}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed",
				"check", c.Name,
				"error", err,
			)
			resp.Checks[c.Name] = "unhealthy"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "healthy"
	}
	httputil.WriteJSON(w, status, resp)
}
