// Package services contains the scheduler that finds subscriptions expiring
// tomorrow and feeds the reminder queue.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/gadgetproof/receipt-engine/internal/lib/rabbitmq"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// SubscriptionRepository is the storage query the scheduler runs.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryInfo, error)
}

// SchedulerService periodically publishes expiry reminders to the broker.
type SchedulerService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptionsDueTomorrow runs the expiry query immediately and
// then every 12 hours until ctx is cancelled.
func (s *SchedulerService) FindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for subscriptions expiring tomorrow")
	infos, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(infos) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(infos))
	for _, info := range infos {
		err = rabbitmq.PublishMessage(channel, rabbitmq.ExchangeName, rabbitmq.RoutingKeyExpiry, info)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
