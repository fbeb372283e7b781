// Package metrics registers the engine's Prometheus counters, exposed on
// the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReceiptsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_engine_receipts_issued_total",
		Help: "Number of receipts issued.",
	})

	ReceiptsFlagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_engine_receipts_flagged_total",
		Help: "Number of receipt status flags set by buyers.",
	}, []string{"status"})

	ReceiptsRecycled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_engine_receipts_recycled_total",
		Help: "Number of receipts recycled.",
	})

	SubscriptionsPurchased = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_engine_subscriptions_purchased_total",
		Help: "Number of subscription purchases and renewals.",
	}, []string{"tier"})

	TreasuryWithdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_engine_treasury_withdrawals_total",
		Help: "Number of non-zero treasury withdrawals.",
	})
)
