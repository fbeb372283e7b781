// Package services contains the admin-facing role registry operations.
package services

import (
	"context"
	"log/slog"
)

// RegistryEngine is the slice of the engine this service drives.
type RegistryEngine interface {
	AddMerchant(ctx context.Context, caller, identity string) error
	RemoveMerchant(ctx context.Context, caller, identity string) error
	AddRecycler(ctx context.Context, caller, identity string) error
	RemoveRecycler(ctx context.Context, caller, identity string) error
	IsVerifiedMerchant(identity string) bool
	IsRecycler(identity string) bool
}

// RegistryService wraps role grants and revocations with logging.
type RegistryService struct {
	engine RegistryEngine
	log    *slog.Logger
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(engine RegistryEngine, log *slog.Logger) *RegistryService {
	return &RegistryService{engine: engine, log: log}
}

// AddMerchant grants the merchant role. Admin only.
func (s *RegistryService) AddMerchant(ctx context.Context, caller, identity string) error {
	if err := s.engine.AddMerchant(ctx, caller, identity); err != nil {
		return err
	}
	s.log.Info("merchant added", slog.String("identity", identity))
	return nil
}

// RemoveMerchant revokes the merchant role. Admin only.
func (s *RegistryService) RemoveMerchant(ctx context.Context, caller, identity string) error {
	if err := s.engine.RemoveMerchant(ctx, caller, identity); err != nil {
		return err
	}
	s.log.Info("merchant removed", slog.String("identity", identity))
	return nil
}

// AddRecycler grants the recycler role. Admin only.
func (s *RegistryService) AddRecycler(ctx context.Context, caller, identity string) error {
	if err := s.engine.AddRecycler(ctx, caller, identity); err != nil {
		return err
	}
	s.log.Info("recycler added", slog.String("identity", identity))
	return nil
}

// RemoveRecycler revokes the recycler role. Admin only.
func (s *RegistryService) RemoveRecycler(ctx context.Context, caller, identity string) error {
	if err := s.engine.RemoveRecycler(ctx, caller, identity); err != nil {
		return err
	}
	s.log.Info("recycler removed", slog.String("identity", identity))
	return nil
}

// IsVerifiedMerchant reports whether the identity holds the merchant role.
func (s *RegistryService) IsVerifiedMerchant(identity string) bool {
	return s.engine.IsVerifiedMerchant(identity)
}

// IsRecycler reports whether the identity holds the recycler role.
func (s *RegistryService) IsRecycler(identity string) bool {
	return s.engine.IsRecycler(identity)
}
