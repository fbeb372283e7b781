package engine

import (
	"context"
	"fmt"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

// IssueReceipt allocates the next sequential receipt id for a buyer and
// consumes one unit of the caller's quota, all in one critical section so
// two concurrent issuances can never both pass the quota check. Ids start
// at 1 and are never reused. The three failure kinds a merchant UI needs to
// distinguish (ErrUnauthorized, ErrSubscriptionInactive, ErrQuotaExceeded)
// come back as distinct sentinels.
func (e *Engine) IssueReceipt(ctx context.Context, caller, buyer, contentRef string) (uint64, error) {
	const op = "engine.IssueReceipt"

	if buyer == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidIdentity)
	}
	if contentRef == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrEmptyContentRef)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return 0, fmt.Errorf("%s: %w", op, ErrSystemPaused)
	}
	if err := e.canIssueLocked(caller); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := e.clock()
	rec := models.Receipt{
		ID:               e.nextID,
		Merchant:         caller,
		Buyer:            buyer,
		ContentRef:       contentRef,
		IssuedAt:         now,
		Status:           models.StatusActive,
		LastStatusUpdate: now,
	}
	sub := *e.subs[caller]
	sub.ReceiptsRemaining--
	sub.ReceiptsIssued++

	if err := e.store.SaveReceipt(ctx, rec, sub); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	*e.subs[caller] = sub
	e.receipts[rec.ID] = &rec
	e.byMerchant[caller] = append(e.byMerchant[caller], rec.ID)
	e.byBuyer[buyer] = append(e.byBuyer[buyer], rec.ID)
	e.nextID++
	return rec.ID, nil
}

// FlagReceipt lets the buyer who owns a receipt report it stolen, used or
// broken. Buyers may re-flag between those three states at will; Active and
// Recycled are rejected as explicit targets, and a recycled receipt can no
// longer be flagged. Not gated by the global pause switch: pause blocks the
// financial and issuance path only.
func (e *Engine) FlagReceipt(ctx context.Context, caller string, id uint64, status models.Status) error {
	const op = "engine.FlagReceipt"

	if !status.BuyerSettable() {
		return fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.receipts[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrReceiptNotFound)
	}
	if caller != rec.Buyer {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if rec.Status == models.StatusRecycled {
		return fmt.Errorf("%s: %w", op, ErrAlreadyRecycled)
	}

	updated := *rec
	updated.Status = status
	updated.LastStatusUpdate = e.clock()
	if err := e.store.UpdateReceipt(ctx, updated); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*rec = updated
	return nil
}

// RecycleReceipt finalizes a receipt as recycled from any non-recycled
// state. Recycler-only and terminal; re-recycling fails with
// ErrAlreadyRecycled so every successful recycle is a real event. Like
// FlagReceipt, not gated by the global pause switch.
func (e *Engine) RecycleReceipt(ctx context.Context, caller string, id uint64) error {
	const op = "engine.RecycleReceipt"

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.recyclers[caller]; !ok {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	rec, ok := e.receipts[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrReceiptNotFound)
	}
	if rec.Status == models.StatusRecycled {
		return fmt.Errorf("%s: %w", op, ErrAlreadyRecycled)
	}

	updated := *rec
	updated.Status = models.StatusRecycled
	updated.LastStatusUpdate = e.clock()
	if err := e.store.UpdateReceipt(ctx, updated); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*rec = updated
	return nil
}

// GetReceipt returns a copy of the receipt with the given id.
func (e *Engine) GetReceipt(id uint64) (*models.Receipt, error) {
	const op = "engine.GetReceipt"

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.receipts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrReceiptNotFound)
	}
	out := *rec
	return &out, nil
}

// ListMerchantReceipts returns the merchant's receipts in issuance order.
// The index is appended at issuance, not rebuilt by scanning.
func (e *Engine) ListMerchantReceipts(merchant string) []models.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collect(e.byMerchant[merchant])
}

// ListBuyerReceipts returns the buyer's receipts in issuance order.
func (e *Engine) ListBuyerReceipts(buyer string) []models.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collect(e.byBuyer[buyer])
}

func (e *Engine) collect(ids []uint64) []models.Receipt {
	out := make([]models.Receipt, 0, len(ids))
	for _, id := range ids {
		out = append(out, *e.receipts[id])
	}
	return out
}
