package engine

import (
	"context"
	"fmt"
)

// Pause flips the global kill-switch on. While paused, purchase, renewal
// and issuance fail with ErrSystemPaused; read-only queries and status
// transitions on already-issued receipts stay available.
func (e *Engine) Pause(ctx context.Context, caller string) error {
	const op = "engine.Pause"
	return e.setPaused(ctx, op, caller, true)
}

// Unpause flips the global kill-switch off.
func (e *Engine) Unpause(ctx context.Context, caller string) error {
	const op = "engine.Unpause"
	return e.setPaused(ctx, op, caller, false)
}

func (e *Engine) setPaused(ctx context.Context, op, caller string, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if e.paused == paused {
		return nil
	}
	if err := e.store.SaveGlobalPause(ctx, paused); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.paused = paused
	return nil
}

// IsPaused reports the global pause flag. Pure query.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}
