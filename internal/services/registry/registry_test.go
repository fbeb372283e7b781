package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gadgetproof/receipt-engine/internal/engine"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AddMerchant(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func (m *MockEngine) RemoveMerchant(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func (m *MockEngine) AddRecycler(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func (m *MockEngine) RemoveRecycler(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func (m *MockEngine) IsVerifiedMerchant(identity string) bool {
	args := m.Called(identity)
	return args.Bool(0)
}

func (m *MockEngine) IsRecycler(identity string) bool {
	args := m.Called(identity)
	return args.Bool(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryService_AddAndRemove(t *testing.T) {
	eng := new(MockEngine)
	svc := NewRegistryService(eng, discardLogger())
	ctx := context.Background()

	eng.On("AddMerchant", mock.Anything, "root", "alice-market").Return(nil)
	eng.On("RemoveMerchant", mock.Anything, "root", "alice-market").Return(nil)
	eng.On("AddRecycler", mock.Anything, "root", "depot-7").Return(nil)
	eng.On("RemoveRecycler", mock.Anything, "root", "depot-7").Return(nil)

	require.NoError(t, svc.AddMerchant(ctx, "root", "alice-market"))
	require.NoError(t, svc.RemoveMerchant(ctx, "root", "alice-market"))
	require.NoError(t, svc.AddRecycler(ctx, "root", "depot-7"))
	require.NoError(t, svc.RemoveRecycler(ctx, "root", "depot-7"))
	eng.AssertExpectations(t)
}

func TestRegistryService_NonAdminRejected(t *testing.T) {
	eng := new(MockEngine)
	svc := NewRegistryService(eng, discardLogger())

	eng.On("AddMerchant", mock.Anything, "mallory", "mallory").Return(engine.ErrUnauthorized)

	err := svc.AddMerchant(context.Background(), "mallory", "mallory")
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
}

func TestRegistryService_Queries(t *testing.T) {
	eng := new(MockEngine)
	svc := NewRegistryService(eng, discardLogger())

	eng.On("IsVerifiedMerchant", "alice-market").Return(true)
	eng.On("IsRecycler", "alice-market").Return(false)

	assert.True(t, svc.IsVerifiedMerchant("alice-market"))
	assert.False(t, svc.IsRecycler("alice-market"))
}
