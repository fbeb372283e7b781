// Package read implements the HTTP handler returning a single receipt.
package read

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves single-receipt lookups.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the lookup part of the receipt service.
type Service interface {
	Get(id uint64) (*models.Receipt, error)
}

// New creates a read Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Read a receipt
// @Description Returns the receipt with the given id.
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Receipt id"
// @Success 200 {object} response.Response "Receipt record"
// @Failure 400 {object} response.ErrorResponse "Invalid id"
// @Failure 404 {object} response.ErrorResponse "Receipt not found"
// @Router /receipts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.read"
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

	rec, err := h.service.Get(id)
	if err != nil {
		log.Error("failed to read receipt", sl.Err(err))
		status, resp := response.EngineError(err, "could not read receipt")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(rec))
}
