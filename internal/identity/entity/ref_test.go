package entity

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestVerificationRefRoundTrip(t *testing.T) {
	ref := EncodeVerificationRef(42)

	id, err := DecodeVerificationRef(ref)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != 42 {
		t.Fatalf("decoded %d, want 42", id)
	}
}

func TestDecodeVerificationRefRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":     "not-a-ref!",
		"not a number":   base64.RawURLEncoding.EncodeToString([]byte("jdoe")),
		"zero id":        base64.RawURLEncoding.EncodeToString([]byte("0")),
		"negative id":    base64.RawURLEncoding.EncodeToString([]byte("-7")),
		"empty":          "",
		"padded variant": base64.StdEncoding.EncodeToString([]byte("42")) + "==",
	}

	for name, ref := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeVerificationRef(ref); !errors.Is(err, ErrInvalidRef) {
				t.Fatalf("got %v, want ErrInvalidRef", err)
			}
		})
	}
}
