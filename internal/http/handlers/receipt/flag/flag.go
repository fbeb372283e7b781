// Package flag implements the HTTP handler letting a buyer report the
// status of a receipt they own.
package flag

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves buyer status flags.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the flagging part of the receipt service.
type Service interface {
	Flag(ctx context.Context, caller string, id uint64, status models.Status) error
}

// New creates a flag Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Flag a receipt
// @Description Sets stolen, used or broken on a receipt owned by the caller. Flags are mutually revisable until recycling.
// @Tags Receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Receipt id"
// @Param request body models.DummyFlag true "New status"
// @Success 200 {object} response.Response "Status updated"
// @Failure 400 {object} response.ErrorResponse "Invalid id, JSON or status"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller does not own the receipt"
// @Failure 404 {object} response.ErrorResponse "Receipt not found"
// @Failure 409 {object} response.ErrorResponse "Receipt already recycled"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /receipts/{id}/flag [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.flag"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid receipt id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid receipt id"))
		return
	}

	var req models.DummyFlag
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

	if err := h.service.Flag(r.Context(), caller, id, models.Status(req.Status)); err != nil {
		log.Error("failed to flag receipt", sl.Err(err))
		status, resp := response.EngineError(err, "could not flag receipt")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("receipt flagged", slog.Uint64("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":     id,
		"status": req.Status,
	}))
}
