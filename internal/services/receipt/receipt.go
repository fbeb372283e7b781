// Package services contains the business logic around receipt issuance and
// lifecycle, layering caching, metrics and event publishing over the engine.
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

// ReceiptEngine is the slice of the engine this service drives.
type ReceiptEngine interface {
	IssueReceipt(ctx context.Context, caller, buyer, contentRef string) (uint64, error)
	FlagReceipt(ctx context.Context, caller string, id uint64, status models.Status) error
	RecycleReceipt(ctx context.Context, caller string, id uint64) error
	GetReceipt(id uint64) (*models.Receipt, error)
	ListMerchantReceipts(merchant string) []models.Receipt
	ListBuyerReceipts(buyer string) []models.Receipt
}

// Cache describes the read-side cache used for single-receipt lookups.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ReceiptService wraps the engine's receipt operations. The AMQP channel is
// optional; with a nil channel lifecycle events are not published.
type ReceiptService struct {
	engine  ReceiptEngine
	cache   Cache
	channel *amqp.Channel
	log     *slog.Logger
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(engine ReceiptEngine, cache Cache, channel *amqp.Channel, log *slog.Logger) *ReceiptService {
	return &ReceiptService{
		engine:  engine,
		cache:   cache,
		channel: channel,
		log:     log,
	}
}

// Issue creates a receipt for the calling merchant and returns its id.
func (s *ReceiptService) Issue(ctx context.Context, caller string, req models.DummyIssue) (uint64, error) {
	id, err := s.engine.IssueReceipt(ctx, caller, req.Buyer, req.ContentRef)
	if err != nil {
		return 0, err
	}
	metrics.ReceiptsIssued.Inc()
	s.log.Info("issued receipt", slog.Uint64("id", id), slog.String("merchant", caller))

	rec, err := s.engine.GetReceipt(id)
	if err == nil {
		cacheKey := fmt.Sprintf("receipt:%d", id)
		if err := s.cache.Set(cacheKey, rec, time.Hour); err != nil {
			s.log.Warn("failed to cache receipt", slog.String("key", cacheKey), sl.Err(err))
		}
		s.publishEvent(rec, caller)
	}
	return id, nil
}

// Flag sets a buyer-reported status on a receipt.
func (s *ReceiptService) Flag(ctx context.Context, caller string, id uint64, status models.Status) error {
	if err := s.engine.FlagReceipt(ctx, caller, id, status); err != nil {
		return err
	}
	metrics.ReceiptsFlagged.WithLabelValues(string(status)).Inc()
	s.afterStatusChange(id, caller)
	return nil
}

// Recycle moves a receipt into its terminal state.
func (s *ReceiptService) Recycle(ctx context.Context, caller string, id uint64) error {
	if err := s.engine.RecycleReceipt(ctx, caller, id); err != nil {
		return err
	}
	metrics.ReceiptsRecycled.Inc()
	s.afterStatusChange(id, caller)
	return nil
}

// Get returns a receipt by id, serving from cache when possible.
func (s *ReceiptService) Get(id uint64) (*models.Receipt, error) {
	var cached *models.Receipt
	cacheKey := fmt.Sprintf("receipt:%d", id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && err == nil {
		return cached, nil
	}

	rec, err := s.engine.GetReceipt(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, rec, time.Hour); err != nil {
		s.log.Warn("failed to cache receipt", slog.String("key", cacheKey), sl.Err(err))
	}
	return rec, nil
}

// ListMerchant returns the merchant's receipts in issuance order.
func (s *ReceiptService) ListMerchant(merchant string) []models.Receipt {
	return s.engine.ListMerchantReceipts(merchant)
}

// ListBuyer returns the buyer's receipts in issuance order.
func (s *ReceiptService) ListBuyer(buyer string) []models.Receipt {
	return s.engine.ListBuyerReceipts(buyer)
}

func (s *ReceiptService) afterStatusChange(id uint64, actor string) {
	cacheKey := fmt.Sprintf("receipt:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if rec, err := s.engine.GetReceipt(id); err == nil {
		s.publishEvent(rec, actor)
	}
}

func (s *ReceiptService) publishEvent(rec *models.Receipt, actor string) {
	if s.channel == nil {
		return
	}
	event := models.ReceiptEvent{
		ReceiptID: rec.ID,
		Merchant:  rec.Merchant,
		Buyer:     rec.Buyer,
		Status:    rec.Status,
		Actor:     actor,
		At:        rec.LastStatusUpdate,
	}
	if err := rabbitmq.PublishMessage(s.channel, rabbitmq.ExchangeName, rabbitmq.RoutingKeyReceipt, event); err != nil {
		s.log.Error("failed to publish receipt event", sl.Err(err))
	}
}
