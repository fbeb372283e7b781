package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gadgetproof/receipt-engine/internal/lib/jwt"
	"github.com/gadgetproof/receipt-engine/internal/lib/password"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo *MockUserRepository) *AuthService {
	maker := jwt.NewJWTMaker("test_secret_key", 15*time.Minute)
	return NewAuthService(repo, maker)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		if u.Email != "alice@market.example" || u.Username != "alicemarket" {
			return false
		}
		// The stored hash must verify against the raw password.
		return password.CompareHash(u.PasswordHash, "str0ngpassword") == nil
	})).Return("uid-1", nil)

	uid, err := svc.Register(context.Background(), "alice@market.example", "alicemarket", "str0ngpassword")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_AssignsUID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	// The uid column has no server-side default; the service must mint one
	// or the INSERT rejects the empty string.
	var stored models.User
	repo.On("RegisterUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(models.User)
		}).
		Return("uid-1", nil)

	_, err := svc.Register(context.Background(), "bob@market.example", "bobmarket", "str0ngpassword")
	require.NoError(t, err)

	parsed, err := uuid.Parse(stored.UUID)
	require.NoError(t, err, "stored user must carry a valid uid")
	assert.NotEqual(t, uuid.Nil, parsed)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	hash, err := password.GetHash("str0ngpassword")
	require.NoError(t, err)
	repo.On("GetUserByUsername", mock.Anything, "alicemarket").Return(&models.User{
		UUID:         "uid-1",
		Username:     "alicemarket",
		PasswordHash: hash,
	}, nil)

	token, err := svc.Login(context.Background(), "alicemarket", "str0ngpassword")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alicemarket", user.Username)
	assert.Equal(t, "uid-1", user.UUID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	hash, err := password.GetHash("str0ngpassword")
	require.NoError(t, err)
	repo.On("GetUserByUsername", mock.Anything, "alicemarket").Return(&models.User{
		Username:     "alicemarket",
		PasswordHash: hash,
	}, nil)

	_, err = svc.Login(context.Background(), "alicemarket", "wrongpassword")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("user not found"))

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo)

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.Error(t, err)
}
