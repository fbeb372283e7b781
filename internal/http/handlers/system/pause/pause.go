// Package pause implements the admin HTTP handlers flipping the global
// pause switch.
package pause

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
)

// Handler serves global pause or unpause requests depending on how it was
// constructed.
type Handler struct {
	log     *slog.Logger
	service Service
	pausing bool
}

// Service is the pause part of the system service.
type Service interface {
	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
}

// New creates a Handler that pauses the system.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, pausing: true}
}

// NewUnpause creates a Handler that unpauses the system.
func NewUnpause(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, pausing: false}
}

// ServeHTTP godoc
// @Summary Pause or unpause the system
// @Description Flips the global switch blocking purchases, renewals and issuance. Reads and status flags keep working. Admin only.
// @Tags System
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Switch updated"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Router /admin/pause [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.system.pause"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || caller == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var err error
	if h.pausing {
		err = h.service.Pause(r.Context(), caller)
	} else {
		err = h.service.Unpause(r.Context(), caller)
	}
	if err != nil {
		log.Error("failed to update pause switch", sl.Err(err))
		status, resp := response.EngineError(err, "could not update pause switch")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("pause switch updated", slog.Bool("paused", h.pausing))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"paused": h.pausing,
	}))
}
