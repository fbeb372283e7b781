package models

import "time"

// ReceiptEvent is published to the notifications exchange on issuance and on
// every status transition.
type ReceiptEvent struct {
	ReceiptID uint64    `json:"receipt_id"`
	Merchant  string    `json:"merchant"`
	Buyer     string    `json:"buyer"`
	Status    Status    `json:"status"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

// SubscriptionEvent is published on purchase and renewal.
type SubscriptionEvent struct {
	Merchant       string    `json:"merchant"`
	Tier           Tier      `json:"tier"`
	DurationMonths int       `json:"duration_months"`
	Payment        int64     `json:"payment"`
	ExpiresAt      time.Time `json:"expires_at"`
	At             time.Time `json:"at"`
}

// ExpiryInfo carries the data the reminder email needs; produced by the
// scheduler from a storage query joining subscriptions with users.
type ExpiryInfo struct {
	Email     string    `json:"email"`
	Merchant  string    `json:"merchant"`
	Tier      Tier      `json:"tier"`
	ExpiresAt time.Time `json:"expires_at"`
}
