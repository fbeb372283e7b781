package repository

import (
	"context"
	"fmt"

	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// Load reads the full engine state for bootstrap.
func (s *Storage) Load(ctx context.Context) (*engine.Snapshot, error) {
	const op = "storage.Load"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	snap := &engine.Snapshot{}

	rows, err := s.DB.QueryContext(ctx, `SELECT role, identity FROM roles`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var role, identity string
		if err := rows.Scan(&role, &identity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		switch engine.Role(role) {
		case engine.RoleMerchant:
			snap.Merchants = append(snap.Merchants, identity)
		case engine.RoleRecycler:
			snap.Recyclers = append(snap.Recyclers, identity)
		}
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err = s.DB.QueryContext(ctx, `SELECT merchant, tier, expires_at, receipts_issued,
			      receipts_remaining, paused
			  FROM subscriptions`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.Merchant, &sub.Tier, &sub.ExpiresAt,
			&sub.ReceiptsIssued, &sub.ReceiptsRemaining, &sub.Paused); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snap.Subscriptions = append(snap.Subscriptions, sub)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err = s.DB.QueryContext(ctx, `SELECT id, merchant, buyer, content_ref, issued_at,
			      status, last_status_update
			  FROM receipts
		      ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for rows.Next() {
		var rec models.Receipt
		if err := rows.Scan(&rec.ID, &rec.Merchant, &rec.Buyer, &rec.ContentRef,
			&rec.IssuedAt, &rec.Status, &rec.LastStatusUpdate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snap.Receipts = append(snap.Receipts, rec)
	}
	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := s.DB.QueryRowContext(ctx, `SELECT treasury_balance, paused FROM system_state WHERE id = 1`)
	if err := row.Scan(&snap.TreasuryBalance, &snap.Paused); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return snap, nil
}

// SaveRole records role membership or removal of an identity.
func (s *Storage) SaveRole(ctx context.Context, role engine.Role, identity string, member bool) error {
	const op = "storage.SaveRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var err error
	if member {
		_, err = s.DB.ExecContext(ctx, `INSERT INTO roles (role, identity)
			  VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`, string(role), identity)
	} else {
		_, err = s.DB.ExecContext(ctx, `DELETE FROM roles WHERE role = $1 AND identity = $2`,
			string(role), identity)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const upsertSubscription = `INSERT INTO subscriptions (merchant, tier, expires_at,
		      receipts_issued, receipts_remaining, paused)
	  VALUES ($1, $2, $3, $4, $5, $6)
	  ON CONFLICT (merchant) DO UPDATE
	  SET tier = $2, expires_at = $3, receipts_issued = $4,
	      receipts_remaining = $5, paused = $6`

// SaveSubscription upserts a subscription and the treasury balance in one
// transaction (purchase and renewal move money).
func (s *Storage) SaveSubscription(ctx context.Context, sub models.Subscription, treasuryBalance int64) error {
	const op = "storage.SaveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, upsertSubscription,
		sub.Merchant, sub.Tier, sub.ExpiresAt, sub.ReceiptsIssued,
		sub.ReceiptsRemaining, sub.Paused); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE system_state SET treasury_balance = $1 WHERE id = 1`,
		treasuryBalance); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscription upserts a subscription without touching funds.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, upsertSubscription,
		sub.Merchant, sub.Tier, sub.ExpiresAt, sub.ReceiptsIssued,
		sub.ReceiptsRemaining, sub.Paused); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveReceipt inserts a newly issued receipt and the merchant's decremented
// quota counters in one transaction.
func (s *Storage) SaveReceipt(ctx context.Context, rec models.Receipt, sub models.Subscription) error {
	const op = "storage.SaveReceipt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO receipts (id, merchant, buyer, content_ref,
			      issued_at, status, last_status_update)
		  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Merchant, rec.Buyer, rec.ContentRef,
		rec.IssuedAt, rec.Status, rec.LastStatusUpdate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, upsertSubscription,
		sub.Merchant, sub.Tier, sub.ExpiresAt, sub.ReceiptsIssued,
		sub.ReceiptsRemaining, sub.Paused); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateReceipt records a status transition.
func (s *Storage) UpdateReceipt(ctx context.Context, rec models.Receipt) error {
	const op = "storage.UpdateReceipt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `UPDATE receipts
		  SET status = $1, last_status_update = $2
		  WHERE id = $3`,
		rec.Status, rec.LastStatusUpdate, rec.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveTreasury records the balance after a withdrawal.
func (s *Storage) SaveTreasury(ctx context.Context, balance int64) error {
	const op = "storage.SaveTreasury"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `UPDATE system_state SET treasury_balance = $1 WHERE id = 1`,
		balance); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveGlobalPause records the global pause flag.
func (s *Storage) SaveGlobalPause(ctx context.Context, paused bool) error {
	const op = "storage.SaveGlobalPause"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `UPDATE system_state SET paused = $1 WHERE id = 1`,
		paused); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
