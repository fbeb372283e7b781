// Package read implements the HTTP handler returning the calling
// merchant's subscription record.
package read

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves subscription lookups.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the lookup part of the ledger service.
type Service interface {
	Get(merchant string) (*models.Subscription, error)
}

// New creates a read Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Read own subscription
// @Description Returns the calling merchant's subscription record, including the remaining receipt quota.
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Subscription record"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "No subscription on record"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"
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

	sub, err := h.service.Get(caller)
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		status, resp := response.EngineError(err, "could not read subscription")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}
