package withdraw

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gadgetproof/receipt-engine/internal/engine"
	"github.com/gadgetproof/receipt-engine/internal/http/middlewarectx"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Withdraw(ctx context.Context, caller string) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/treasury/withdraw", nil)
	if username != "" {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, username))
	}
	return req
}

func TestWithdrawHandler(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		mockSetup  func(m *MockService)
		wantStatus int
		wantInBody string
	}{
		{
			name:     "admin withdraws",
			username: "root",
			mockSetup: func(m *MockService) {
				m.On("Withdraw", mock.Anything, "root").Return(int64(4997), nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"amount":4997`,
		},
		{
			name:     "empty treasury is a no-op",
			username: "root",
			mockSetup: func(m *MockService) {
				m.On("Withdraw", mock.Anything, "root").Return(int64(0), nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"amount":0`,
		},
		{
			name:     "non-admin rejected",
			username: "mallory",
			mockSetup: func(m *MockService) {
				m.On("Withdraw", mock.Anything, "mallory").
					Return(int64(0), engine.ErrUnauthorized)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unauthenticated",
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
			h.ServeHTTP(rr, newRequest(tt.username))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantInBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
