// Package sender assembles the reminder email worker.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/gadgetproof/receipt-engine/internal/config"
	"github.com/gadgetproof/receipt-engine/internal/lib/rabbitmq"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/lib/smtp"
	senderservice "github.com/gadgetproof/receipt-engine/internal/services/sender"
)

// App holds the sender worker and its owned broker resources.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New creates the sender app: broker topology and SMTP transport.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes the reminder queue until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notification.expiry", a.senderService.SendInfoExpiringSubscription)
	if err != nil {
		a.logger.Error("failed to start notification.expiry consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
