package http

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the unauthenticated health check.
type HealthHandler struct {
	store     Pinger
	responder responder
}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, responder: newResponder(defaultLogger(logger))}
}

// Check answers 204 when the database responds and 503 when it does not.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.responder.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{
				Message: "The database is unavailable.",
			})
			return
		}
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
