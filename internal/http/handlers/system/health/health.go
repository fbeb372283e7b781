// Package health implements the readiness endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
)

// Handler serves readiness probes.
type Handler struct {
	log     *slog.Logger
	checker ReadinessChecker
	system  SystemState
}

// ReadinessChecker verifies the backing storage is reachable.
type ReadinessChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// SystemState exposes the global pause flag.
type SystemState interface {
	IsPaused() bool
}

// New creates a health Handler.
func New(log *slog.Logger, checker ReadinessChecker, system SystemState) *Handler {
	return &Handler{log: log, checker: checker, system: system}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports storage readiness and the global pause state.
// @Tags System
// @Produce json
// @Success 200 {object} response.Response "Service is healthy"
// @Failure 503 {object} response.ErrorResponse "Storage unavailable"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"paused": h.system.IsPaused(),
	}))
}
