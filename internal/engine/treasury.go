package engine

import (
	"context"
	"fmt"
)

// WithdrawFunds transfers the entire treasury balance to the admin and
// zeroes it, returning the amount moved. A zero balance withdraws
// successfully as a no-op transfer of 0, so repeated calls are safe.
func (e *Engine) WithdrawFunds(ctx context.Context, caller string) (int64, error) {
	const op = "engine.WithdrawFunds"

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return 0, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	amount := e.treasury
	if amount == 0 {
		return 0, nil
	}
	if err := e.store.SaveTreasury(ctx, 0); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	e.treasury = 0
	return amount, nil
}

// TreasuryBalance returns the accumulated subscription payments. Admin-only.
func (e *Engine) TreasuryBalance(caller string) (int64, error) {
	const op = "engine.TreasuryBalance"

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return 0, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	return e.treasury, nil
}
