package issue

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
	"github.com/gadgetproof/receipt-engine/internal/http/response"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Issue(ctx context.Context, caller string, req models.DummyIssue) (uint64, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(uint64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, body any, username string) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/receipts", bytes.NewReader(data))
	if username != "" {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, username))
	}
	return req
}

func TestIssueHandler(t *testing.T) {
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
			body:     models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"},
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Issue", mock.Anything, "alicemarket",
					models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"}).
					Return(uint64(1), nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"id":1`,
		},
		{
			name:       "missing buyer",
			body:       models.DummyIssue{ContentRef: "sha256:abc"},
			username:   "alicemarket",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "Buyer",
		},
		{
			name:       "no identity in context",
			body:       models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"},
			username:   "",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "not a merchant",
			body:     models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"},
			username: "mallory",
			mockSetup: func(m *MockService) {
				m.On("Issue", mock.Anything, "mallory", mock.Anything).
					Return(uint64(0), engine.ErrUnauthorized)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "quota exhausted",
			body:     models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"},
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Issue", mock.Anything, "alicemarket", mock.Anything).
					Return(uint64(0), engine.ErrQuotaExceeded)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:     "system paused",
			body:     models.DummyIssue{Buyer: "bob", ContentRef: "sha256:abc"},
			username: "alicemarket",
			mockSetup: func(m *MockService) {
				m.On("Issue", mock.Anything, "alicemarket", mock.Anything).
					Return(uint64(0), engine.ErrSystemPaused)
			},
			wantStatus: http.StatusServiceUnavailable,
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

func TestIssueHandler_BadJSON(t *testing.T) {
	svc := new(MockService)
	h := New(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/receipts", bytes.NewReader([]byte("{broken")))
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, "alicemarket"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, response.StatusError, resp.Status)
}
