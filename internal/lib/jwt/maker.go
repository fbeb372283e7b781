// Package jwt issues and parses signed tokens carrying the caller identity.
package jwt

import (
	"time"
)

// Maker creates and verifies tokens for authenticated users.
type Maker interface {
	GenerateToken(username, useruid string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl signs tokens with a shared secret and a fixed TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker builds a MakerImpl from the secret key and token lifetime.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
