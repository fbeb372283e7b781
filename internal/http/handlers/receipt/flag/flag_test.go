package flag

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

func (m *MockService) Flag(ctx context.Context, caller string, id uint64, status models.Status) error {
	args := m.Called(ctx, caller, id, status)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(t *testing.T, id string, body any, username string) *http.Request {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/receipts/"+id+"/flag", bytes.NewReader(data))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if username != "" {
		ctx = context.WithValue(ctx, middlewarectx.User, username)
	}
	return req.WithContext(ctx)
}

func TestFlagHandler(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       any
		username   string
		mockSetup  func(m *MockService)
		wantStatus int
	}{
		{
			name:     "buyer flags stolen",
			id:       "3",
			body:     models.DummyFlag{Status: "stolen"},
			username: "bob",
			mockSetup: func(m *MockService) {
				m.On("Flag", mock.Anything, "bob", uint64(3), models.StatusStolen).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid id",
			id:         "abc",
			body:       models.DummyFlag{Status: "stolen"},
			username:   "bob",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "status outside buyer set",
			id:         "3",
			body:       models.DummyFlag{Status: "recycled"},
			username:   "bob",
			mockSetup:  func(_ *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:     "not the owner",
			id:       "3",
			body:     models.DummyFlag{Status: "used"},
			username: "eve",
			mockSetup: func(m *MockService) {
				m.On("Flag", mock.Anything, "eve", uint64(3), models.StatusUsed).
					Return(engine.ErrUnauthorized)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "already recycled",
			id:       "3",
			body:     models.DummyFlag{Status: "broken"},
			username: "bob",
			mockSetup: func(m *MockService) {
				m.On("Flag", mock.Anything, "bob", uint64(3), models.StatusBroken).
					Return(engine.ErrAlreadyRecycled)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:     "unknown receipt",
			id:       "99",
			body:     models.DummyFlag{Status: "used"},
			username: "bob",
			mockSetup: func(m *MockService) {
				m.On("Flag", mock.Anything, "bob", uint64(99), models.StatusUsed).
					Return(engine.ErrReceiptNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.mockSetup(svc)
			h := New(discardLogger(), svc)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, newRequest(t, tt.id, tt.body, tt.username))

			assert.Equal(t, tt.wantStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
