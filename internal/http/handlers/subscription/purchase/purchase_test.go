package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Purchase(ctx context.Context, caller string, req models.DummyPurchase) (*models.Subscription, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, body any, username string) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(data))
	if username != "" {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, username))
	}
	return req
}

func TestPurchaseHandler(t *testing.T) {
	validReq := models.DummyPurchase{Tier: "basic", DurationMonths: 1, Payment: 999}

	tests := []struct {
		name       string
		body       any
		username   string
		mockSetup  func(m *MockService)
		wantStatus int
		wantInBody string
	}{
		{
			name:     "success",
			body:     validReq,
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alicemarket", validReq).
					Return(&models.Subscription{
						Merchant:          "alicemarket",
						Tier:              models.TierBasic,
						ReceiptsRemaining: 100,
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"receipts_remaining":100`,
		},
		{
			name:       "unknown tier rejected by validation",
			body:       models.DummyPurchase{Tier: "platinum", DurationMonths: 1, Payment: 999},
			username:   "alicemarket",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:     "wrong payment",
			body:     models.DummyPurchase{Tier: "basic", DurationMonths: 1, Payment: 500},
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alicemarket",
					models.DummyPurchase{Tier: "basic", DurationMonths: 1, Payment: 500}).
					Return(nil, engine.ErrInvalidPayment)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "unregistered merchant",
			body:     validReq,
			username: "mallory",
			mockSetup: func(m *MockService) {
				m.On("Purchase", mock.Anything, "mallory", validReq).
					Return(nil, engine.ErrUnauthorized)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "system paused",
			body:     validReq,
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Purchase", mock.Anything, "alicemarket", validReq).
					Return(nil, engine.ErrSystemPaused)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unauthenticated",
			body:       validReq,
			username:   "",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.mockSetup(svc)
			h := New(discardLogger(), svc)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, newRequest(t, tt.body, tt.username))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantInBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
