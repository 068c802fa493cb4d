package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"javis/internal/httputil"
)

// Pinger checks that a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	ping   Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. A nil ping skips the database check.
func NewHealthHandler(ping Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// Health returns {"status":"ok"}, or 503 when the database is unreachable
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
