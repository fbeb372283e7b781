// Package services contains registration, login and token validation.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gadgetproof/receipt-engine/internal/lib/jwt"
	"github.com/gadgetproof/receipt-engine/internal/lib/password"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService handles registration, authentication and JWT validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register creates an account with a hashed password and returns its uid.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		UUID:         uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login checks the password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.jwtMaker.GenerateToken(user.Username, user.UUID)
}

// ValidateToken parses the token and returns the identity it carries.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		UUID:     claims.UserUID,
	}, nil
}
