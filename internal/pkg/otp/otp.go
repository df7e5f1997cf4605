package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultDigits is the code length used for email verification.
const DefaultDigits = 6

// Generator produces one-time numeric verification codes.
type Generator interface {
	// Generate returns a fixed-width, zero-padded decimal code.
	Generate() (string, error)
}

// NumericCode implements Generator with uniformly distributed decimal digits.
//
// Codes are drawn from crypto/rand so an attacker who has seen earlier codes
// gains nothing toward guessing the next one. A 6-digit code is still only
// one in a million; the short expiry window and single-use invalidation are
// what keep brute force impractical.
type NumericCode struct {
	digits int
	max    *big.Int
}

// NewNumericCode returns a generator for codes of the given width.
// Widths outside 4..10 fall back to DefaultDigits.
func NewNumericCode(digits int) *NumericCode {
	if digits < 4 || digits > 10 {
		digits = DefaultDigits
	}

	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(digits)), nil)

	return &NumericCode{digits: digits, max: max}
}

// Generate returns a zero-padded decimal code, e.g. "042517".
func (g *NumericCode) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, g.max)
	if err != nil {
		return "", fmt.Errorf("otp: draw random code: %w", err)
	}

	return fmt.Sprintf("%0*d", g.digits, n), nil
}

// Digits returns the configured code width.
func (g *NumericCode) Digits() int {
	return g.digits
}
