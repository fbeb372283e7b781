// Package merchantlist implements the HTTP handler listing the calling
// merchant's receipts.
package merchantlist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Handler serves merchant receipt listings.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the merchant-listing part of the receipt service.
type Service interface {
	ListMerchant(merchant string) []models.Receipt
}

// New creates a merchantlist Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List own issued receipts
// @Description Returns the caller's issued receipts in issuance order.
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response "Receipt list"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /receipts/issued [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.merchantlist"
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

	receipts := h.service.ListMerchant(caller)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"receipts": receipts,
		"count":    len(receipts),
	}))
}
