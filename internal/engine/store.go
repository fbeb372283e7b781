package engine

import (
	"context"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Role names persisted alongside identities in the role registry.
type Role string

const (
	// RoleMerchant may hold a subscription and issue receipts.
	RoleMerchant Role = "merchant"
	// RoleRecycler may finalize receipts as recycled.
	RoleRecycler Role = "recycler"
)

// Snapshot is the durable engine state loaded at startup.
type Snapshot struct {
	Merchants       []string
	Recyclers       []string
	Subscriptions   []models.Subscription
	Receipts        []models.Receipt
	TreasuryBalance int64
	Paused          bool
}

// Store persists engine state. Each method corresponds to one engine
// operation and must apply its writes atomically (the PostgreSQL
// implementation uses a transaction per call). The engine calls Store while
// holding its lock and mutates in-memory state only after the write
// succeeds, so either all of an operation's effects apply or none do.
type Store interface {
	// Load returns the full engine state for bootstrap.
	Load(ctx context.Context) (*Snapshot, error)
	// SaveRole records membership (member=true) or removal of an identity.
	SaveRole(ctx context.Context, role Role, identity string, member bool) error
	// SaveSubscription upserts a subscription together with the new
	// treasury balance (purchase and renewal move money).
	SaveSubscription(ctx context.Context, sub models.Subscription, treasuryBalance int64) error
	// UpdateSubscription upserts a subscription without touching funds
	// (per-merchant pause).
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	// SaveReceipt inserts a newly issued receipt together with the
	// merchant's decremented quota counters.
	SaveReceipt(ctx context.Context, rec models.Receipt, sub models.Subscription) error
	// UpdateReceipt records a status transition.
	UpdateReceipt(ctx context.Context, rec models.Receipt) error
	// SaveTreasury records the balance after a withdrawal.
	SaveTreasury(ctx context.Context, balance int64) error
	// SaveGlobalPause records the global pause flag.
	SaveGlobalPause(ctx context.Context, paused bool) error
}
