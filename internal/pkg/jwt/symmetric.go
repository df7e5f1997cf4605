package jwt

import (
	"errors"
	"strconv"

	libjwt "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs tokens with HMAC-SHA512 using a shared secret.
type Symmetric struct {
	cfg Config
}

// NewHS512 builds a Symmetric codec. The secret must be at least 64 bytes.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}

	return &Symmetric{cfg: cfg}, nil
}

// Generate mints a signed token for the user.
func (s *Symmetric) Generate(userID int64, email, role string) (string, error) {
	now := s.cfg.Clock.Now()

	return libjwt.NewWithClaims(libjwt.SigningMethodHS512, Claims{
		RegisteredClaims: libjwt.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libjwt.NewNumericDate(now),
			NotBefore: libjwt.NewNumericDate(now),
			ExpiresAt: libjwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID:    userID,
		UserEmail: email,
		UserRole:  role,
	}).SignedString(s.cfg.Secret)
}

// Verify parses and validates a token string.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := libjwt.ParseWithClaims(token, &claims,
		func(t *libjwt.Token) (any, error) {
			if t.Method != libjwt.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}

			return s.cfg.Secret, nil
		},
		libjwt.WithIssuer(s.cfg.Issuer),
		libjwt.WithAudience(s.cfg.Audiences...),
		libjwt.WithValidMethods([]string{libjwt.SigningMethodHS512.Alg()}),
		libjwt.WithIssuedAt(),
		libjwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, libjwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}

		return Claims{}, ErrInvalidToken
	}

	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
