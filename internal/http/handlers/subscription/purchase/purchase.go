// Package purchase implements the HTTP handler buying a subscription for
// the calling merchant.
package purchase

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

// Handler serves subscription purchase requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the purchase part of the ledger service.
type Service interface {
	Purchase(ctx context.Context, caller string, req models.DummyPurchase) (*models.Subscription, error)
}

// New creates a purchase Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Purchase a subscription
// @Description Buys a tiered subscription for the calling merchant. Payment must match the tier price times duration exactly.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DummyPurchase true "Tier, duration and payment"
// @Success 200 {object} response.Response "Subscription record"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON, tier, duration or payment"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not a verified merchant"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 503 {object} response.ErrorResponse "System is paused"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPurchase
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

	sub, err := h.service.Purchase(r.Context(), caller, req)
	if err != nil {
		log.Error("failed to purchase subscription", sl.Err(err))
		status, resp := response.EngineError(err, "could not purchase subscription")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("subscription purchased", slog.String("merchant", caller), slog.String("tier", req.Tier))
	render.JSON(w, r, response.OKWithData(sub))
}
