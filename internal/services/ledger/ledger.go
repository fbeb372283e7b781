// Package services contains the business logic for subscription purchase,
// renewal and issuance-rights queries.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/gadgetproof/receipt-engine/internal/lib/rabbitmq"
	"github.com/gadgetproof/receipt-engine/internal/lib/sl"
	"github.com/gadgetproof/receipt-engine/internal/metrics"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// LedgerEngine is the slice of the engine this service drives.
type LedgerEngine interface {
	PurchaseSubscription(ctx context.Context, caller string, tier models.Tier, durationMonths int, payment int64) (*models.Subscription, error)
	RenewSubscription(ctx context.Context, caller string, durationMonths int, payment int64) (*models.Subscription, error)
	PauseMerchant(ctx context.Context, caller, merchant string, paused bool) error
	CanIssueReceipts(merchant string) bool
	GetSubscription(merchant string) (*models.Subscription, error)
}

// Cache describes the read-side cache for subscription lookups.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// LedgerService wraps subscription operations with caching, metrics and
// purchase/renewal events. A nil channel disables event publishing.
type LedgerService struct {
	engine  LedgerEngine
	cache   Cache
	channel *amqp.Channel
	log     *slog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(engine LedgerEngine, cache Cache, channel *amqp.Channel, log *slog.Logger) *LedgerService {
	return &LedgerService{
		engine:  engine,
		cache:   cache,
		channel: channel,
		log:     log,
	}
}

// Purchase buys a subscription for the calling merchant.
func (s *LedgerService) Purchase(ctx context.Context, caller string, req models.DummyPurchase) (*models.Subscription, error) {
	sub, err := s.engine.PurchaseSubscription(ctx, caller, models.Tier(req.Tier), req.DurationMonths, req.Payment)
	if err != nil {
		return nil, err
	}
	metrics.SubscriptionsPurchased.WithLabelValues(req.Tier).Inc()
	s.log.Info("subscription purchased",
		slog.String("merchant", caller),
		slog.String("tier", req.Tier),
		slog.Int("months", req.DurationMonths))

	s.afterChange(sub, req.DurationMonths, req.Payment)
	return sub, nil
}

// Renew extends the calling merchant's subscription on its current tier.
func (s *LedgerService) Renew(ctx context.Context, caller string, req models.DummyRenew) (*models.Subscription, error) {
	sub, err := s.engine.RenewSubscription(ctx, caller, req.DurationMonths, req.Payment)
	if err != nil {
		return nil, err
	}
	metrics.SubscriptionsPurchased.WithLabelValues(string(sub.Tier)).Inc()
	s.log.Info("subscription renewed",
		slog.String("merchant", caller),
		slog.Int("months", req.DurationMonths))

	s.afterChange(sub, req.DurationMonths, req.Payment)
	return sub, nil
}

// PauseMerchant toggles the per-merchant pause flag. Admin only.
func (s *LedgerService) PauseMerchant(ctx context.Context, caller, merchant string, paused bool) error {
	if err := s.engine.PauseMerchant(ctx, caller, merchant, paused); err != nil {
		return err
	}
	cacheKey := fmt.Sprintf("subscription:%s", merchant)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	s.log.Info("merchant pause updated", slog.String("merchant", merchant), slog.Bool("paused", paused))
	return nil
}

// CanIssue reports whether the merchant may currently issue receipts.
func (s *LedgerService) CanIssue(merchant string) bool {
	return s.engine.CanIssueReceipts(merchant)
}

// Get returns the merchant's subscription record, serving from cache when
// possible.
func (s *LedgerService) Get(merchant string) (*models.Subscription, error) {
	var cached *models.Subscription
	cacheKey := fmt.Sprintf("subscription:%s", merchant)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && err == nil {
		return cached, nil
	}

	sub, err := s.engine.GetSubscription(merchant)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, sub, time.Minute); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return sub, nil
}

func (s *LedgerService) afterChange(sub *models.Subscription, months int, payment int64) {
	cacheKey := fmt.Sprintf("subscription:%s", sub.Merchant)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if s.channel == nil {
		return
	}
	event := models.SubscriptionEvent{
		Merchant:       sub.Merchant,
		Tier:           sub.Tier,
		DurationMonths: months,
		Payment:        payment,
		ExpiresAt:      sub.ExpiresAt,
		At:             time.Now().UTC(),
	}
	if err := rabbitmq.PublishMessage(s.channel, rabbitmq.ExchangeName, rabbitmq.RoutingKeySubscription, event); err != nil {
		s.log.Error("failed to publish subscription event", sl.Err(err))
	}
}
