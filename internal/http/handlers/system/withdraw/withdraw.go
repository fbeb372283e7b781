// Package withdraw implements the admin HTTP handler draining the treasury.
package withdraw

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

// Handler serves treasury withdrawals.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the withdrawal part of the system service.
type Service interface {
	Withdraw(ctx context.Context, caller string) (int64, error)
}

// New creates a withdraw Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Withdraw the treasury
// @Description Transfers the full accumulated balance to the admin. Withdrawing an empty treasury is a no-op success. Admin only.
// @Tags System
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Withdrawn amount"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Router /admin/treasury/withdraw [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.system.withdraw"
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

	amount, err := h.service.Withdraw(r.Context(), caller)
	if err != nil {
		log.Error("failed to withdraw treasury", sl.Err(err))
		status, resp := response.EngineError(err, "could not withdraw treasury")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("treasury withdrawn", slog.Int64("amount", amount))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"amount": amount,
	}))
}
