// Package memory implements the engine Store in process memory. It backs
// unit tests and single-node runs that do not need durability; the engine's
// own lock already serializes every call into it.
package memory

import (
	"context"

	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Store keeps the persisted state mirrors. Zero value is not usable; call New.
type Store struct {
	roles     map[engine.Role]map[string]struct{}
	subs      map[string]models.Subscription
	receipts  map[uint64]models.Receipt
	treasury  int64
	paused    bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		roles: map[engine.Role]map[string]struct{}{
			engine.RoleMerchant: {},
			engine.RoleRecycler: {},
		},
		subs:     make(map[string]models.Subscription),
		receipts: make(map[uint64]models.Receipt),
	}
}

// Load returns the current state as a bootstrap snapshot.
func (s *Store) Load(_ context.Context) (*engine.Snapshot, error) {
	snap := &engine.Snapshot{
		TreasuryBalance: s.treasury,
		Paused:          s.paused,
	}
	for id := range s.roles[engine.RoleMerchant] {
		snap.Merchants = append(snap.Merchants, id)
	}
	for id := range s.roles[engine.RoleRecycler] {
		snap.Recyclers = append(snap.Recyclers, id)
	}
	for _, sub := range s.subs {
		snap.Subscriptions = append(snap.Subscriptions, sub)
	}
	for _, rec := range s.receipts {
		snap.Receipts = append(snap.Receipts, rec)
	}
	return snap, nil
}

// SaveRole records membership or removal of an identity.
func (s *Store) SaveRole(_ context.Context, role engine.Role, identity string, member bool) error {
	if member {
		s.roles[role][identity] = struct{}{}
	} else {
		delete(s.roles[role], identity)
	}
	return nil
}

// SaveSubscription upserts a subscription and the treasury balance together.
func (s *Store) SaveSubscription(_ context.Context, sub models.Subscription, treasuryBalance int64) error {
	s.subs[sub.Merchant] = sub
	s.treasury = treasuryBalance
	return nil
}

// UpdateSubscription upserts a subscription without touching funds.
func (s *Store) UpdateSubscription(_ context.Context, sub models.Subscription) error {
	s.subs[sub.Merchant] = sub
	return nil
}

// SaveReceipt inserts a receipt and the merchant's new quota counters.
func (s *Store) SaveReceipt(_ context.Context, rec models.Receipt, sub models.Subscription) error {
	s.receipts[rec.ID] = rec
	s.subs[sub.Merchant] = sub
	return nil
}

// UpdateReceipt records a status transition.
func (s *Store) UpdateReceipt(_ context.Context, rec models.Receipt) error {
	s.receipts[rec.ID] = rec
	return nil
}

// SaveTreasury records the balance after a withdrawal.
func (s *Store) SaveTreasury(_ context.Context, balance int64) error {
	s.treasury = balance
	return nil
}

// SaveGlobalPause records the global pause flag.
func (s *Store) SaveGlobalPause(_ context.Context, paused bool) error {
	s.paused = paused
	return nil
}
