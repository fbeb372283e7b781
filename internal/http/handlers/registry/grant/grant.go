// Package grant implements the admin HTTP handler granting the merchant or
// recycler role to an identity.
package grant

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

// Handler serves role grant requests. The role comes from the URL.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the role-granting part of the registry service.
type Service interface {
	AddMerchant(ctx context.Context, caller, identity string) error
	AddRecycler(ctx context.Context, caller, identity string) error
}

// New creates a grant Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Grant a role
// @Description Adds the identity in the body to the merchant or recycler registry. Admin only.
// @Tags Registry
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param role path string true "Role name" Enums(merchant, recycler)
// @Param request body models.DummyRoleChange true "Identity to add"
// @Success 200 {object} response.Response "Role granted"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or role"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Caller is not the admin"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /admin/roles/{role} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registry.grant"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRoleChange
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

	var err error
	role := chi.URLParam(r, "role")
	switch role {
	case "merchant":
		err = h.service.AddMerchant(r.Context(), caller, req.Identity)
	case "recycler":
		err = h.service.AddRecycler(r.Context(), caller, req.Identity)
	default:
		log.Error("unknown role", slog.String("role", role))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown role"))
		return
	}
	if err != nil {
		log.Error("failed to grant role", sl.Err(err))
		status, resp := response.EngineError(err, "could not grant role")
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("role granted", slog.String("role", role), slog.String("identity", req.Identity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"role":     role,
		"identity": req.Identity,
	}))
}
