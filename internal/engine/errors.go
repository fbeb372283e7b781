package engine

import "errors"

// Sentinel errors returned by engine operations. Callers match them with
// errors.Is; the HTTP layer maps each kind to a distinct status and message.
var (
	// ErrUnauthorized - caller lacks the required role or ownership.
	ErrUnauthorized = errors.New("caller is not authorized")
	// ErrSystemPaused - the global pause switch blocks this operation.
	ErrSystemPaused = errors.New("system is paused")
	// ErrSubscriptionInactive - missing, expired or admin-paused subscription.
	ErrSubscriptionInactive = errors.New("subscription is inactive")
	// ErrQuotaExceeded - no receipts remaining in the current term.
	ErrQuotaExceeded = errors.New("receipt quota exceeded")
	// ErrNoActiveSubscription - renewal requires an existing subscription.
	ErrNoActiveSubscription = errors.New("merchant has no subscription")
	// ErrAlreadyRecycled - the receipt reached its terminal state.
	ErrAlreadyRecycled = errors.New("receipt is already recycled")
	// ErrInvalidPayment - payment does not exactly match price(tier)*months.
	ErrInvalidPayment = errors.New("payment amount does not match price")
	// ErrInvalidDuration - durationMonths must be at least 1.
	ErrInvalidDuration = errors.New("duration must be at least one month")
	// ErrInvalidStatus - buyers may only flag stolen, used or broken.
	ErrInvalidStatus = errors.New("status is not buyer-settable")
	// ErrEmptyContentRef - receipts require a content reference.
	ErrEmptyContentRef = errors.New("content reference is empty")
	// ErrInvalidIdentity - identities must be non-empty.
	ErrInvalidIdentity = errors.New("identity is empty")
	// ErrUnknownTier - tier is not in the pricing table.
	ErrUnknownTier = errors.New("unknown subscription tier")
	// ErrReceiptNotFound - no receipt with the given id.
	ErrReceiptNotFound = errors.New("receipt not found")
)
