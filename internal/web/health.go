package web

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/songbook/internal/server"
)

const pingTimeout = 2 * time.Second

// Pinger checks that the backing store is reachable. Implemented by repositories.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	store Pinger
	resp  *Responder
}

// NewHealthHandler creates a [HealthHandler]
func NewHealthHandler(store Pinger, resp *Responder) *HealthHandler {
	return &HealthHandler{store: store, resp: resp}
}

// Routes implements [server.Handler].
func (h *HealthHandler) Routes() []server.Route {
	return []server.Route{{Method: http.MethodGet, Path: "/health", Handler: h.health}}
}

func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.resp.logger.Warn("health check failed", "error", err)
		h.resp.JSON(w, http.StatusServiceUnavailable, envelope{"status": "unavailable", "database": "unreachable"})
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"status": "ok", "database": "ok"})
}
