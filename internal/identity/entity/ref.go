package entity

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// ErrInvalidRef indicates a verification reference that does not decode to a
// user ID.
var ErrInvalidRef = errors.New("identity: invalid verification reference")

// EncodeVerificationRef wraps a user ID into the opaque reference returned by
// registration. This is obfuscation for nicer links, not access control; the
// emailed code is the secret.
func EncodeVerificationRef(userID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
}

// DecodeVerificationRef recovers the user ID from a verification reference.
func DecodeVerificationRef(ref string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil {
		return 0, ErrInvalidRef
	}

	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRef
	}

	return id, nil
}
