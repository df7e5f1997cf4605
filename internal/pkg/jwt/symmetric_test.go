package jwt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/pkg/clock"
)

type staticID struct{ value string }

func (s staticID) Generate() string { return s.value }

func testConfig(fixed *clock.Fixed) Config {
	return Config{
		Secret:    bytes.Repeat([]byte("0123456789abcdef"), 4),
		Issuer:    "portal-test",
		Audiences: []string{"portal"},
		TTL:       15 * time.Minute,
		Clock:     fixed,
		UUID:      staticID{value: "jti-1"},
	}
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	cfg := testConfig(&clock.Fixed{At: time.Now()})
	cfg.Secret = []byte(strings.Repeat("x", 63))

	if _, err := NewHS512(cfg); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("got %v, want ErrSigningKeyTooShort", err)
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	// Verify checks expiry against wall time, so pin the clock to now.
	fixed := &clock.Fixed{At: time.Now()}
	codec, err := NewHS512(testConfig(fixed))
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	token, err := codec.Generate(42, "jdoe@example.com", "citizen")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.UserEmail != "jdoe@example.com" || claims.UserRole != "citizen" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject = %q, want \"42\"", claims.Subject)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	// Issued an hour ago with a 15 minute TTL, long past expiry.
	fixed := &clock.Fixed{At: time.Now().Add(-time.Hour)}
	codec, err := NewHS512(testConfig(fixed))
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	token, err := codec.Generate(42, "jdoe@example.com", "citizen")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("got %v, want ErrExpiredToken", err)
	}
}
