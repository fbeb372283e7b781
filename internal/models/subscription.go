package models

import "time"

// Tier is a priced subscription plan defining a receipt quota per term.
type Tier string

const (
	// TierNone marks a merchant without a subscription.
	TierNone Tier = "none"
	// TierBasic is the entry plan.
	TierBasic Tier = "basic"
	// TierPremium is the mid plan.
	TierPremium Tier = "premium"
	// TierEnterprise is the top plan.
	TierEnterprise Tier = "enterprise"
)

// Plan holds the pricing-table row for a tier. Prices are minor currency
// units per month; the quota is a flat per-term allotment.
type Plan struct {
	PriceMonthly int64 `yaml:"price_monthly"`
	ReceiptQuota int   `yaml:"receipt_quota"`
}

// Subscription is the per-merchant subscription record, created on first
// purchase and never deleted, only left expired.
type Subscription struct {
	Merchant          string    `json:"merchant"`
	Tier              Tier      `json:"tier"`
	ExpiresAt         time.Time `json:"expires_at"`
	ReceiptsIssued    int       `json:"receipts_issued"`
	ReceiptsRemaining int       `json:"receipts_remaining"`
	Paused            bool      `json:"paused"` // per-merchant admin pause, distinct from the global switch
}

// ActiveAt reports whether the subscription term covers now.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// DummyPurchase receives subscription purchase data from a JSON request.
// Payment is the already-validated amount routed by the wallet layer.
type DummyPurchase struct {
	Tier           string `json:"tier" validate:"required,oneof=basic premium enterprise"`
	DurationMonths int    `json:"duration_months" validate:"required,gte=1"`
	Payment        int64  `json:"payment" validate:"required,gt=0"`
}

// DummyRenew receives subscription renewal data from a JSON request.
type DummyRenew struct {
	DurationMonths int   `json:"duration_months" validate:"required,gte=1"`
	Payment        int64 `json:"payment" validate:"required,gt=0"`
}

// DummyMerchantPause receives the per-merchant pause flag from a JSON request.
type DummyMerchantPause struct {
	Paused *bool `json:"paused" validate:"required"`
}
