// Package canissue implements the HTTP handler reporting whether the
// calling merchant may currently issue receipts.
package canissue

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
)

// Handler serves issuance-rights queries.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the issuance-rights part of the ledger service.
type Service interface {
	CanIssue(merchant string) bool
}

// New creates a canissue Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Check issuance rights
// @Description Reports whether the caller is a verified merchant with an active, unexhausted, unpaused subscription.
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Boolean verdict"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /subscriptions/can-issue [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.canissue"
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

	render.JSON(w, r, response.OKWithData(map[string]any{
		"can_issue": h.service.CanIssue(caller),
	}))
}
