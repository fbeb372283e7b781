package engine

import (
	"context"
	"fmt"
)

// AddMerchant verifies an identity as a merchant. Admin-only, idempotent:
// re-adding a present identity is a no-op success.
func (e *Engine) AddMerchant(ctx context.Context, caller, identity string) error {
	const op = "engine.AddMerchant"
	return e.setRole(ctx, op, caller, RoleMerchant, identity, true)
}

// RemoveMerchant strips the merchant role. Admin-only, idempotent: removing
// an absent identity is a no-op success.
func (e *Engine) RemoveMerchant(ctx context.Context, caller, identity string) error {
	const op = "engine.RemoveMerchant"
	return e.setRole(ctx, op, caller, RoleMerchant, identity, false)
}

// AddRecycler verifies an identity as a recycler. Admin-only, idempotent.
func (e *Engine) AddRecycler(ctx context.Context, caller, identity string) error {
	const op = "engine.AddRecycler"
	return e.setRole(ctx, op, caller, RoleRecycler, identity, true)
}

// RemoveRecycler strips the recycler role. Admin-only, idempotent.
func (e *Engine) RemoveRecycler(ctx context.Context, caller, identity string) error {
	const op = "engine.RemoveRecycler"
	return e.setRole(ctx, op, caller, RoleRecycler, identity, false)
}

func (e *Engine) setRole(ctx context.Context, op string, caller string, role Role, identity string, member bool) error {
	if identity == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidIdentity)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	set := e.merchants
	if role == RoleRecycler {
		set = e.recyclers
	}
	if _, present := set[identity]; present == member {
		// no-op success on duplicate add / absent remove
		return nil
	}
	if err := e.store.SaveRole(ctx, role, identity, member); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if member {
		set[identity] = struct{}{}
	} else {
		delete(set, identity)
	}
	return nil
}

// IsVerifiedMerchant reports merchant membership. Pure query.
func (e *Engine) IsVerifiedMerchant(identity string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.merchants[identity]
	return ok
}

// IsRecycler reports recycler membership. Pure query.
func (e *Engine) IsRecycler(identity string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.recyclers[identity]
	return ok
}
