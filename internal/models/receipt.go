// Package models contains the domain structures for receipts, subscriptions
// and roles, plus helper types for data arriving from JSON requests.
package models

import "time"

// Status is the lifecycle state of a receipt.
type Status string

const (
	// StatusActive is the initial state set at issuance.
	StatusActive Status = "active"
	// StatusStolen is a buyer-reported state.
	StatusStolen Status = "stolen"
	// StatusUsed is a buyer-reported state.
	StatusUsed Status = "used"
	// StatusBroken is a buyer-reported state.
	StatusBroken Status = "broken"
	// StatusRecycled is terminal; only recyclers set it.
	StatusRecycled Status = "recycled"
)

// BuyerSettable reports whether a buyer may flag a receipt into s.
// Active and Recycled are reserved for the system and recyclers.
func (s Status) BuyerSettable() bool {
	switch s {
	case StatusStolen, StatusUsed, StatusBroken:
		return true
	}
	return false
}

// Receipt is the proof-of-purchase record binding a merchant, a buyer and an
// opaque content reference. Merchant, Buyer, ContentRef and IssuedAt are
// immutable after creation; only Status and LastStatusUpdate change.
type Receipt struct {
	ID               uint64    `json:"id"`
	Merchant         string    `json:"merchant"`
	Buyer            string    `json:"buyer"`
	ContentRef       string    `json:"content_ref"`
	IssuedAt         time.Time `json:"issued_at"`
	Status           Status    `json:"status"`
	LastStatusUpdate time.Time `json:"last_status_update"`
}

// DummyIssue receives issuance data from a JSON request before it is handed
// to the engine. The buyer identity and content reference are opaque strings
// produced upstream (wallet layer and storage uploader respectively).
type DummyIssue struct {
	Buyer      string `json:"buyer" validate:"required"`       // Buyer identity
	ContentRef string `json:"content_ref" validate:"required"` // Opaque content hash/identifier
}

// DummyFlag receives a buyer-reported status change from a JSON request.
type DummyFlag struct {
	Status string `json:"status" validate:"required,oneof=stolen used broken"`
}
