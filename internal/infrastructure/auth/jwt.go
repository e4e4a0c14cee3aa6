package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by Inspect for opaque tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the registered claims the console reads from backend tokens.
// The signature is never checked here; the backend is the only verifier.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Inspect decodes the claims of token without verifying it.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// JWTExpiry takes the access token expiry from its exp claim and falls
// back to a fixed lifetime for opaque tokens or tokens without exp.
type JWTExpiry struct {
	fallback time.Duration
}

// NewJWTExpiry creates a JWTExpiry with the given fallback lifetime.
func NewJWTExpiry(fallback time.Duration) *JWTExpiry {
	return &JWTExpiry{fallback: fallback}
}

// ExpiresAt returns the exp claim of accessToken, or issuedAt plus the
// fallback lifetime.
func (e *JWTExpiry) ExpiresAt(accessToken string, issuedAt time.Time) time.Time {
	claims, err := Inspect(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		return issuedAt.Add(e.fallback)
	}
	return claims.ExpiresAt.Time
}
