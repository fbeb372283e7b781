// Package pausemerchant implements the admin HTTP handler toggling the
// per-merchant pause flag.
package pausemerchant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves per-merchant pause requests. The merchant comes from the URL.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the merchant-pause part of the ledger service.
type Service interface {
	PauseMerchant(ctx context.Context, caller, merchant string, paused bool) error
}

// New creates a pausemerchant Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Pause or resume a merchant
// @Description Blocks or restores issuance for one merchant without touching their term or quota. Admin only.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param merchant path string true "Merchant identity"
// @Param request body models.DummyMerchantPause true "Pause flag"
// @Success 200 {object} response.Response "Flag updated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Failure 404 {object} response.ErrorResponse "Merchant has no subscription record"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /admin/merchants/{merchant}/pause [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.pausemerchant"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMerchantPause
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

	merchant := chi.URLParam(r, "merchant")
	if err := h.service.PauseMerchant(r.Context(), caller, merchant, *req.Paused); err != nil {
		log.Error("failed to update merchant pause", sl.Err(err))
		status, resp := response.EngineError(err, "could not update merchant pause")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("merchant pause updated", slog.String("merchant", merchant), slog.Bool("paused", *req.Paused))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"merchant": merchant,
		"paused":   *req.Paused,
	}))
}
