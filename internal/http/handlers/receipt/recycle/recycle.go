// Package recycle implements the HTTP handler moving a receipt into its
// terminal recycled state.
package recycle

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
)

// Handler serves recycling requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the recycling part of the receipt service.
type Service interface {
	Recycle(ctx context.Context, caller string, id uint64) error
}

// New creates a recycle Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Recycle a receipt
// @Description Marks the receipt recycled. Terminal; only registered recyclers may call this.
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Receipt id"
// @Success 200 {object} response.Response "Receipt recycled"
// @Failure 400 {object} response.ErrorResponse "Invalid id"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not a recycler"
// @Failure 404 {object} response.ErrorResponse "Receipt not found"
// @Failure 409 {object} response.ErrorResponse "Receipt already recycled"
// @Router /receipts/{id}/recycle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.recycle"
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

	caller, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || caller == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Recycle(r.Context(), caller, id); err != nil {
		log.Error("failed to recycle receipt", sl.Err(err))
		status, resp := response.EngineError(err, "could not recycle receipt")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("receipt recycled", slog.Uint64("id", id), slog.String("recycler", caller))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
