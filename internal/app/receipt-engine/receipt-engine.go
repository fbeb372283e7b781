// Package receiptengine assembles the API service: storage, migrations,
// cache, broker, the engine itself and the HTTP server.
package receiptengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/gadgetproof/receipt-engine/internal/cache"
	"github.com/gadgetproof/receipt-engine/internal/config"
	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/lib/jwt"
	"github.com/gadgetproof/receipt-engine/internal/lib/rabbitmq"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/migrations"
	authservice "github.com/gadgetproof/receipt-engine/internal/services/auth"
	ledgerservice "github.com/gadgetproof/receipt-engine/internal/services/ledger"
	receiptservice "github.com/gadgetproof/receipt-engine/internal/services/receipt"
	registryservice "github.com/gadgetproof/receipt-engine/internal/services/registry"
	systemservice "github.com/gadgetproof/receipt-engine/internal/services/system"
	"github.com/gadgetproof/receipt-engine/internal/storage/repository"
)

// App holds the assembled API service and its owned resources.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New builds the service: opens storage, runs migrations, restores the
// engine from its snapshot and wires all routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Events are optional: without a broker URL the service runs fine,
	// it just does not publish lifecycle events.
	var conn *amqp.Connection
	var ch *amqp.Channel
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			if closeErr := conn.Close(); closeErr != nil {
				logger.Error("failed to close connection", sl.Err(closeErr))
			}
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
	}

	eng, err := engine.New(ctx, cfg.AdminIdentity, db)
	if err != nil {
		return nil, err
	}
	logger.Info("engine restored", slog.String("admin", eng.Admin()))

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authSvc := authservice.NewAuthService(db, jwtMaker)
	registrySvc := registryservice.NewRegistryService(eng, logger)
	ledgerSvc := ledgerservice.NewLedgerService(eng, cacheRedis, ch, logger)
	receiptSvc := receiptservice.NewReceiptService(eng, cacheRedis, ch, logger)
	systemSvc := systemservice.NewSystemService(eng, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteServices{
		Auth:     authSvc,
		Registry: registrySvc,
		Ledger:   ledgerSvc,
		Receipt:  receiptSvc,
		System:   systemSvc,
		Storage:  db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.ch != nil {
			if closeErr := a.ch.Close(); closeErr != nil {
				a.logger.Error("failed to close channel", sl.Err(closeErr))
			}
		}
		if a.conn != nil {
			if closeErr := a.conn.Close(); closeErr != nil {
				a.logger.Error("failed to close connection", sl.Err(closeErr))
			}
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
