package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) IssueReceipt(ctx context.Context, caller, buyer, contentRef string) (uint64, error) {
	args := m.Called(ctx, caller, buyer, contentRef)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockEngine) FlagReceipt(ctx context.Context, caller string, id uint64, status models.Status) error {
	args := m.Called(ctx, caller, id, status)
	return args.Error(0)
}

func (m *MockEngine) RecycleReceipt(ctx context.Context, caller string, id uint64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockEngine) GetReceipt(id uint64) (*models.Receipt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockEngine) ListMerchantReceipts(merchant string) []models.Receipt {
	args := m.Called(merchant)
	return args.Get(0).([]models.Receipt)
}

func (m *MockEngine) ListBuyerReceipts(buyer string) []models.Receipt {
	args := m.Called(buyer)
	return args.Get(0).([]models.Receipt)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReceiptService_Issue(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	rec := &models.Receipt{ID: 1, Merchant: "alice-market", Buyer: "bob", Status: models.StatusActive}
	eng.On("IssueReceipt", mock.Anything, "alice-market", "bob", "sha256:abc").Return(uint64(1), nil)
	eng.On("GetReceipt", uint64(1)).Return(rec, nil)
	cache.On("Set", "receipt:1", rec, time.Hour).Return(nil)

	id, err := svc.Issue(context.Background(), "alice-market", models.DummyIssue{
		Buyer:      "bob",
		ContentRef: "sha256:abc",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	eng.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReceiptService_Issue_EngineError(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	eng.On("IssueReceipt", mock.Anything, "mallory", "bob", "sha256:abc").
		Return(uint64(0), engine.ErrUnauthorized)

	_, err := svc.Issue(context.Background(), "mallory", models.DummyIssue{
		Buyer:      "bob",
		ContentRef: "sha256:abc",
	})
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_Flag_InvalidatesCache(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	flagged := &models.Receipt{ID: 3, Merchant: "alice-market", Buyer: "bob", Status: models.StatusStolen}
	eng.On("FlagReceipt", mock.Anything, "bob", uint64(3), models.StatusStolen).Return(nil)
	eng.On("GetReceipt", uint64(3)).Return(flagged, nil)
	cache.On("Invalidate", "receipt:3").Return(nil)

	err := svc.Flag(context.Background(), "bob", 3, models.StatusStolen)
	require.NoError(t, err)

	eng.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReceiptService_Get_CacheHit(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	cached := &models.Receipt{ID: 5, Merchant: "alice-market", Buyer: "bob"}
	cache.On("Get", "receipt:5", mock.Anything).Run(func(args mock.Arguments) {
		ptr := args.Get(1).(**models.Receipt)
		*ptr = cached
	}).Return(true, nil)

	rec, err := svc.Get(5)
	require.NoError(t, err)
	assert.Equal(t, cached, rec)
	eng.AssertNotCalled(t, "GetReceipt", mock.Anything)
}

func TestReceiptService_Get_CacheMiss(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	rec := &models.Receipt{ID: 5, Merchant: "alice-market", Buyer: "bob"}
	cache.On("Get", "receipt:5", mock.Anything).Return(false, nil)
	eng.On("GetReceipt", uint64(5)).Return(rec, nil)
	cache.On("Set", "receipt:5", rec, time.Hour).Return(nil)

	got, err := svc.Get(5)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	eng.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReceiptService_Recycle(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	recycled := &models.Receipt{ID: 9, Status: models.StatusRecycled}
	eng.On("RecycleReceipt", mock.Anything, "depot-7", uint64(9)).Return(nil)
	eng.On("GetReceipt", uint64(9)).Return(recycled, nil)
	cache.On("Invalidate", "receipt:9").Return(nil)

	require.NoError(t, svc.Recycle(context.Background(), "depot-7", 9))
	eng.AssertExpectations(t)
}

func TestReceiptService_Listings(t *testing.T) {
	eng := new(MockEngine)
	cache := new(MockCache)
	svc := NewReceiptService(eng, cache, nil, discardLogger())

	merchantReceipts := []models.Receipt{{ID: 1}, {ID: 2}}
	buyerReceipts := []models.Receipt{{ID: 2}}
	eng.On("ListMerchantReceipts", "alice-market").Return(merchantReceipts)
	eng.On("ListBuyerReceipts", "bob").Return(buyerReceipts)

	assert.Equal(t, merchantReceipts, svc.ListMerchant("alice-market"))
	assert.Equal(t, buyerReceipts, svc.ListBuyer("bob"))
}
