// Package receiptengine registers the API routes.
package receiptengine

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gadgetproof/receipt-engine/internal/http/handlers/auth/login"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/auth/register"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/buyerlist"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/flag"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/issue"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/merchantlist"
	receiptread "github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/read"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/receipt/recycle"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/registry/grant"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/registry/revoke"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/subscription/canissue"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/subscription/pausemerchant"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/subscription/purchase"
	subread "github.com/gadgetproof/receipt-engine/internal/http/handlers/subscription/read"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/subscription/renew"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/system/balance"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/system/health"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/system/pause"
	"github.com/gadgetproof/receipt-engine/internal/http/handlers/system/withdraw"
	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	authservice "github.com/gadgetproof/receipt-engine/internal/services/auth"
	ledgerservice "github.com/gadgetproof/receipt-engine/internal/services/ledger"
	receiptservice "github.com/gadgetproof/receipt-engine/internal/services/receipt"
	registryservice "github.com/gadgetproof/receipt-engine/internal/services/registry"
	systemservice "github.com/gadgetproof/receipt-engine/internal/services/system"
	"github.com/gadgetproof/receipt-engine/internal/storage/repository"
)

// RouteServices bundles everything the router needs.
type RouteServices struct {
	Auth     *authservice.AuthService
	Registry *registryservice.RegistryService
	Ledger   *ledgerservice.LedgerService
	Receipt  *receiptservice.ReceiptService
	System   *systemservice.SystemService
	Storage  *repository.Storage
}

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svcs RouteServices) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/auth/register", register.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svcs.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, svcs.Storage, svcs.System).ServeHTTP)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/subscriptions", purchase.New(logger, svcs.Ledger).ServeHTTP)
			r.Post("/subscriptions/renew", renew.New(logger, svcs.Ledger).ServeHTTP)
			r.Get("/subscriptions", subread.New(logger, svcs.Ledger).ServeHTTP)
			r.Get("/subscriptions/can-issue", canissue.New(logger, svcs.Ledger).ServeHTTP)

			r.Post("/receipts", issue.New(logger, svcs.Receipt).ServeHTTP)
			r.Get("/receipts/{id}", receiptread.New(logger, svcs.Receipt).ServeHTTP)
			r.Post("/receipts/{id}/flag", flag.New(logger, svcs.Receipt).ServeHTTP)
			r.Post("/receipts/{id}/recycle", recycle.New(logger, svcs.Receipt).ServeHTTP)
			r.Get("/receipts/issued", merchantlist.New(logger, svcs.Receipt).ServeHTTP)
			r.Get("/receipts/held", buyerlist.New(logger, svcs.Receipt).ServeHTTP)

			// Admin console
			r.Post("/admin/roles/{role}", grant.New(logger, svcs.Registry).ServeHTTP)
			r.Delete("/admin/roles/{role}/{identity}", revoke.New(logger, svcs.Registry).ServeHTTP)
			r.Post("/admin/merchants/{merchant}/pause", pausemerchant.New(logger, svcs.Ledger).ServeHTTP)
			r.Post("/admin/pause", pause.New(logger, svcs.System).ServeHTTP)
			r.Post("/admin/unpause", pause.NewUnpause(logger, svcs.System).ServeHTTP)
			r.Get("/admin/treasury", balance.New(logger, svcs.System).ServeHTTP)
			r.Post("/admin/treasury/withdraw", withdraw.New(logger, svcs.System).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
