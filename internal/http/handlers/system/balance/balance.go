// Package balance implements the admin HTTP handler reading the treasury
// balance.
package balance

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
)

// Handler serves treasury balance reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the balance part of the system service.
type Service interface {
	Balance(caller string) (int64, error)
}

// New creates a balance Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Read the treasury balance
// @Description Returns the accumulated subscription payments not yet withdrawn. Admin only.
// @Tags System
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Current balance"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Router /admin/treasury [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.system.balance"
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

	balance, err := h.service.Balance(caller)
	if err != nil {
		log.Error("failed to read treasury balance", sl.Err(err))
		status, resp := response.EngineError(err, "could not read treasury balance")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"balance": balance,
	}))
}
