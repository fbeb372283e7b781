// Package revoke implements the admin HTTP handler removing the merchant or
// recycler role from an identity.
package revoke

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
)

// Handler serves role revocation requests. Role and identity come from the URL.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the role-revoking part of the registry service.
type Service interface {
	RemoveMerchant(ctx context.Context, caller, identity string) error
	RemoveRecycler(ctx context.Context, caller, identity string) error
}

// New creates a revoke Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Revoke a role
// @Description Removes the identity from the merchant or recycler registry. Admin only.
// @Tags Registry
// @Security BearerAuth
// @Produce json
// @Param role path string true "Role name" Enums(merchant, recycler)
// @Param identity path string true "Identity to remove"
// @Success 200 {object} response.Response "Role revoked"
// @Failure 400 {object} response.ErrorResponse "Unknown role"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Router /admin/roles/{role}/{identity} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registry.revoke"
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

	identity := chi.URLParam(r, "identity")
	if identity == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("identity is required"))
		return
	}

	var err error
	role := chi.URLParam(r, "role")
	switch role {
	case "merchant":
		err = h.service.RemoveMerchant(r.Context(), caller, identity)
	case "recycler":
		err = h.service.RemoveRecycler(r.Context(), caller, identity)
	default:
		log.Error("unknown role", slog.String("role", role))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown role"))
		return
	}
	if err != nil {
		log.Error("failed to revoke role", sl.Err(err))
		status, resp := response.EngineError(err, "could not revoke role")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("role revoked", slog.String("role", role), slog.String("identity", identity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"role":     role,
		"identity": identity,
	}))
}
