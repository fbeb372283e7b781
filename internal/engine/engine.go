// Package engine implements the subscription-gated receipt issuance and
// lifecycle state machine: role registry, treasury, subscription ledger,
// receipt registry and the global pause switch.
//
// The engine is a single-writer, strongly consistent state machine. One
// mutex serializes every mutating operation, so a check-and-update sequence
// (quota check then consumption, role check then role mutation) always runs
// as a single critical section. Time-dependent checks read an injectable
// clock once at call entry. Durable writes go through a Store inside the
// critical section; in-memory state changes only after the write succeeds.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Pricing maps tiers to their plan row. It is deployment configuration,
// fixed for the lifetime of the engine.
type Pricing map[models.Tier]models.Plan

// DefaultPricing returns the stock pricing table. Prices are minor currency
// units per month; quotas are flat per-term allotments.
func DefaultPricing() Pricing {
	return Pricing{
		models.TierBasic:      {PriceMonthly: 999, ReceiptQuota: 100},
		models.TierPremium:    {PriceMonthly: 2999, ReceiptQuota: 1000},
		models.TierEnterprise: {PriceMonthly: 9999, ReceiptQuota: 10000},
	}
}

// Engine owns all mutable shared state: role sets, per-merchant
// subscriptions, receipts and their indexes, the treasury balance and the
// global pause flag. All access goes through its methods.
type Engine struct {
	mu      sync.Mutex
	admin   string
	pricing Pricing
	store   Store
	clock   func() time.Time

	merchants  map[string]struct{}
	recyclers  map[string]struct{}
	subs       map[string]*models.Subscription
	receipts   map[uint64]*models.Receipt
	byMerchant map[string][]uint64
	byBuyer    map[string][]uint64
	nextID     uint64
	treasury   int64
	paused     bool
}

// Option overrides engine defaults.
type Option func(*Engine)

// WithClock replaces the wall clock; tests drive time through this.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithPricing replaces the default pricing table.
func WithPricing(p Pricing) Option {
	return func(e *Engine) { e.pricing = p }
}

// New builds an engine owned by the given admin identity and loads durable
// state from the store.
func New(ctx context.Context, admin string, store Store, opts ...Option) (*Engine, error) {
	const op = "engine.New"
	if admin == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidIdentity)
	}

	e := &Engine{
		admin:      admin,
		pricing:    DefaultPricing(),
		store:      store,
		clock:      time.Now,
		merchants:  make(map[string]struct{}),
		recyclers:  make(map[string]struct{}),
		subs:       make(map[string]*models.Subscription),
		receipts:   make(map[uint64]*models.Receipt),
		byMerchant: make(map[string][]uint64),
		byBuyer:    make(map[string][]uint64),
		nextID:     1,
	}
	for _, opt := range opts {
		opt(e)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.restore(snap)
	return e, nil
}

func (e *Engine) restore(snap *Snapshot) {
	for _, m := range snap.Merchants {
		e.merchants[m] = struct{}{}
	}
	for _, r := range snap.Recyclers {
		e.recyclers[r] = struct{}{}
	}
	for i := range snap.Subscriptions {
		sub := snap.Subscriptions[i]
		e.subs[sub.Merchant] = &sub
	}
	for i := range snap.Receipts {
		rec := snap.Receipts[i]
		e.receipts[rec.ID] = &rec
		e.byMerchant[rec.Merchant] = append(e.byMerchant[rec.Merchant], rec.ID)
		e.byBuyer[rec.Buyer] = append(e.byBuyer[rec.Buyer], rec.ID)
		if rec.ID >= e.nextID {
			e.nextID = rec.ID + 1
		}
	}
	e.treasury = snap.TreasuryBalance
	e.paused = snap.Paused
}

// Admin returns the admin identity set at construction.
func (e *Engine) Admin() string {
	return e.admin
}

// Plan returns the pricing-table row for a tier.
func (e *Engine) Plan(tier models.Tier) (models.Plan, error) {
	plan, ok := e.pricing[tier]
	if !ok {
		return models.Plan{}, ErrUnknownTier
	}
	return plan, nil
}

func (e *Engine) isAdmin(caller string) bool {
	return caller == e.admin
}
