package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

type fakeAuth struct {
	user *models.User
	err  error
}

func (f *fakeAuth) ValidateToken(_ context.Context, _ string) (*models.User, error) {
	return f.user, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		auth       *fakeAuth
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token",
			header:     "Bearer sometoken",
			auth:       &fakeAuth{user: &models.User{Username: "alicemarket"}},
			wantStatus: http.StatusOK,
			wantUser:   "alicemarket",
		},
		{
			name:       "missing header",
			header:     "",
			auth:       &fakeAuth{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic Zm9vOmJhcg==",
			auth:       &fakeAuth{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer bad",
			auth:       &fakeAuth{err: errors.New("token is expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = r.Context().Value(User).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/receipts/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			JWTMiddleware(tt.auth, discardLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, gotUser)
			}
		})
	}
}
