package grant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
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

func (m *MockService) AddMerchant(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func (m *MockService) AddRecycler(ctx context.Context, caller, identity string) error {
	args := m.Called(ctx, caller, identity)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, role string, body any, username string) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/roles/"+role, bytes.NewReader(data))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("role", role)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if username != "" {
		ctx = context.WithValue(ctx, middlewarectx.User, username)
	}
	return req.WithContext(ctx)
}

func TestGrantHandler(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		body       any
		username   string
		mockSetup  func(m *MockService)
		wantStatus int
	}{
		{
			name:     "grant merchant",
			role:     "merchant",
			body:     models.DummyRoleChange{Identity: "alice-market"},
			username: "root",
			mockSetup: func(m *MockService) {
				m.On("AddMerchant", mock.Anything, "root", "alice-market").Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "grant recycler",
			role:     "recycler",
			body:     models.DummyRoleChange{Identity: "depot-7"},
			username: "root",
			mockSetup: func(m *MockService) {
				m.On("AddRecycler", mock.Anything, "root", "depot-7").Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown role",
			role:       "auditor",
			body:       models.DummyRoleChange{Identity: "alice-market"},
			username:   "root",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing identity",
			role:       "merchant",
			body:       models.DummyRoleChange{},
			username:   "root",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:     "non-admin caller",
			role:     "merchant",
			body:     models.DummyRoleChange{Identity: "mallory"},
			username: "mallory",
			mockSetup: func(m *MockService) {
				m.On("AddMerchant", mock.Anything, "mallory", "mallory").
					Return(engine.ErrUnauthorized)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.mockSetup(svc)
			h := New(discardLogger(), svc)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, newRequest(t, tt.role, tt.body, tt.username))

			assert.Equal(t, tt.wantStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
