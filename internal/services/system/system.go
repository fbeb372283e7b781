// Package services contains the admin console operations: the global pause
// switch and the treasury.
package services

import (
	"context"
	"log/slog"

	"github.com/gadgetproof/receipt-engine/internal/metrics"
)

// SystemEngine is the slice of the engine this service drives.
type SystemEngine interface {
	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
	IsPaused() bool
	WithdrawFunds(ctx context.Context, caller string) (int64, error)
	TreasuryBalance(caller string) (int64, error)
}

// SystemService wraps the global pause and treasury operations.
type SystemService struct {
	engine SystemEngine
	log    *slog.Logger
}

// NewSystemService creates a new SystemService.
func NewSystemService(engine SystemEngine, log *slog.Logger) *SystemService {
	return &SystemService{engine: engine, log: log}
}

// Pause halts purchases, renewals and issuance. Admin only.
func (s *SystemService) Pause(ctx context.Context, caller string) error {
	if err := s.engine.Pause(ctx, caller); err != nil {
		return err
	}
	s.log.Warn("system paused")
	return nil
}

// Unpause restores normal operation. Admin only.
func (s *SystemService) Unpause(ctx context.Context, caller string) error {
	if err := s.engine.Unpause(ctx, caller); err != nil {
		return err
	}
	s.log.Info("system unpaused")
	return nil
}

// IsPaused reports the global pause state.
func (s *SystemService) IsPaused() bool {
	return s.engine.IsPaused()
}

// Withdraw drains the treasury and returns the withdrawn amount. Admin only.
func (s *SystemService) Withdraw(ctx context.Context, caller string) (int64, error) {
	amount, err := s.engine.WithdrawFunds(ctx, caller)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		metrics.TreasuryWithdrawals.Inc()
		s.log.Info("treasury withdrawn", slog.Int64("amount", amount))
	}
	return amount, nil
}

// Balance returns the current treasury balance. Admin only.
func (s *SystemService) Balance(caller string) (int64, error) {
	return s.engine.TreasuryBalance(caller)
}
