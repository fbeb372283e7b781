package engine

import (
	"context"
	"fmt"

	"github.com/gadgetproof/receipt-engine/internal/lib/month"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// PurchaseSubscription starts (or restarts) a merchant's subscription term.
// The caller must already hold the merchant role; payment must equal
// price(tier) * durationMonths exactly. On success the payment is credited
// to the treasury, the term runs durationMonths calendar months from now,
// and the quota counters reset to the tier's flat per-term allotment.
func (e *Engine) PurchaseSubscription(ctx context.Context, caller string, tier models.Tier, durationMonths int, payment int64) (*models.Subscription, error) {
	const op = "engine.PurchaseSubscription"

	plan, ok := e.pricing[tier]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownTier)
	}
	if durationMonths < 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDuration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, fmt.Errorf("%s: %w", op, ErrSystemPaused)
	}
	if _, ok := e.merchants[caller]; !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if payment != plan.PriceMonthly*int64(durationMonths) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPayment)
	}

	now := e.clock()
	sub := models.Subscription{
		Merchant:          caller,
		Tier:              tier,
		ExpiresAt:         month.Add(now, durationMonths),
		ReceiptsIssued:    0,
		ReceiptsRemaining: plan.ReceiptQuota,
	}
	if prev, ok := e.subs[caller]; ok {
		sub.Paused = prev.Paused
	}

	if err := e.store.SaveSubscription(ctx, sub, e.treasury+payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.subs[caller] = &sub
	e.treasury += payment

	out := sub
	return &out, nil
}

// RenewSubscription extends an existing subscription. Validation matches
// purchase, but the new term starts at max(now, current expiry) so unused
// time is preserved, and the tier is kept.
func (e *Engine) RenewSubscription(ctx context.Context, caller string, durationMonths int, payment int64) (*models.Subscription, error) {
	const op = "engine.RenewSubscription"

	if durationMonths < 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDuration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil, fmt.Errorf("%s: %w", op, ErrSystemPaused)
	}
	if _, ok := e.merchants[caller]; !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	prev, ok := e.subs[caller]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
	}
	plan := e.pricing[prev.Tier]
	if payment != plan.PriceMonthly*int64(durationMonths) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPayment)
	}

	now := e.clock()
	sub := models.Subscription{
		Merchant:          caller,
		Tier:              prev.Tier,
		ExpiresAt:         month.Extend(now, prev.ExpiresAt, durationMonths),
		ReceiptsIssued:    0,
		ReceiptsRemaining: plan.ReceiptQuota,
		Paused:            prev.Paused,
	}

	if err := e.store.SaveSubscription(ctx, sub, e.treasury+payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.subs[caller] = &sub
	e.treasury += payment

	out := sub
	return &out, nil
}

// PauseMerchant sets the per-merchant pause flag without touching quota or
// expiry. Admin-only; the merchant must have a subscription record.
func (e *Engine) PauseMerchant(ctx context.Context, caller, merchant string, paused bool) error {
	const op = "engine.PauseMerchant"

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	prev, ok := e.subs[merchant]
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
	}
	if prev.Paused == paused {
		return nil
	}

	sub := *prev
	sub.Paused = paused
	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	prev.Paused = paused
	return nil
}

// CanIssueReceipts reports whether a merchant may issue right now: verified,
// not merchant-paused, term active and quota remaining. Pure query; the
// global pause switch is deliberately not consulted here (it is checked at
// issuance, which re-runs all of this inside one critical section).
func (e *Engine) CanIssueReceipts(merchant string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canIssueLocked(merchant) == nil
}

// canIssueLocked classifies why issuance is impossible, or returns nil.
// Callers hold e.mu.
func (e *Engine) canIssueLocked(merchant string) error {
	if _, ok := e.merchants[merchant]; !ok {
		return ErrUnauthorized
	}
	sub, ok := e.subs[merchant]
	if !ok || sub.Paused || !sub.ActiveAt(e.clock()) {
		return ErrSubscriptionInactive
	}
	if sub.ReceiptsRemaining <= 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// GetSubscription returns a copy of the merchant's subscription record.
func (e *Engine) GetSubscription(merchant string) (*models.Subscription, error) {
	const op = "engine.GetSubscription"

	e.mu.Lock()
	defer e.mu.Unlock()

	sub, ok := e.subs[merchant]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
	}
	out := *sub
	return &out, nil
}
