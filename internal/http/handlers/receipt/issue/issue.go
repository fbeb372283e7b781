// Package issue implements the HTTP handler creating receipts for the
// calling merchant.
package issue

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

// Handler serves receipt issuance requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the issuance part of the receipt service.
type Service interface {
	Issue(ctx context.Context, caller string, req models.DummyIssue) (uint64, error)
}

// New creates an issue Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Issue a receipt
// @Description Creates a receipt for the calling merchant and decrements their quota. Returns the sequential receipt id.
// @Tags Receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DummyIssue true "Buyer and content reference"
// @Success 200 {object} response.Response "Receipt id"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or empty fields"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not a verified merchant"
// @Failure 409 {object} response.ErrorResponse "Subscription inactive or quota exhausted"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 503 {object} response.ErrorResponse "System is paused"
// @Router /receipts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.issue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyIssue
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

	id, err := h.service.Issue(r.Context(), caller, req)
	if err != nil {
		log.Error("failed to issue receipt", sl.Err(err))
		status, resp := response.EngineError(err, "could not issue receipt")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("receipt issued", slog.Uint64("id", id), slog.String("merchant", caller))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
