// Package jwt issues and verifies the portal's access tokens, and carries
// authenticated claims on the request context.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	// ErrInvalidSigningMethod is returned for tokens signed with another method.
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("jwt: token has expired")
	// ErrInvalidToken is returned when the token is malformed or fails checks.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWT issues and verifies access tokens.
type JWT interface {
	Generate(userID int64, email, role string) (string, error)
	Verify(token string) (Claims, error)
}

// Claims are the registered claims plus the portal payload. Role drives
// policy checks on staff-only endpoints.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	UserRole  string `json:"user_role"`
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config holds the inputs for building a token codec.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	// UUID generates token IDs for the jti claim.
	UUID generator
}

type authContextKey struct{}

// SetAuth stores verified claims on the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authContextKey{}, clm)
}

// GetAuth returns the claims stored on the context, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}
