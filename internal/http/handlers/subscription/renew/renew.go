// Package renew implements the HTTP handler extending the calling
// merchant's subscription.
package renew

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves subscription renewal requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the renewal part of the ledger service.
type Service interface {
	Renew(ctx context.Context, caller string, req models.DummyRenew) (*models.Subscription, error)
}

// New creates a renew Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Renew a subscription
// @Description Extends the current term on the merchant's existing tier. Requires a prior purchase.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DummyRenew true "Duration and payment"
// @Success 200 {object} response.Response "Updated subscription record"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON, duration or payment"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 404 {object} response.ErrorResponse "No subscription to renew"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 503 {object} response.ErrorResponse "System is paused"
// @Router /subscriptions/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRenew
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	caller, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || caller == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Renew(r.Context(), caller, req)
	if err != nil {
		log.Error("failed to renew subscription", sl.Err(err))
		status, resp := response.EngineError(err, "could not renew subscription")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("subscription renewed", slog.String("merchant", caller))
	render.JSON(w, r, response.OKWithData(sub))
}
