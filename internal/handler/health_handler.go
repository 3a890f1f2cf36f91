package handler

import (
	"context"
	"net/http"

	"notebook-server/internal/middleware"
	"notebook-server/pkg/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	*Deps
	store Pinger
}

func NewHealthHandler(deps *Deps, store Pinger) *HealthHandler {
	return &HealthHandler{
		Deps:  deps,
		store: store,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.Log.Warn("health check failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	response.Success(w, map[string]string{"status": "ok"})
}
