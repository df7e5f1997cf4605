package entity

import (
	"testing"
	"time"
)

func TestEmailOTPUsable(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		otp  EmailOTP
		want bool
	}{
		{"fresh", EmailOTP{ExpiresAt: now.Add(8 * time.Minute)}, true},
		{"at the boundary", EmailOTP{ExpiresAt: now}, true},
		{"expired", EmailOTP{ExpiresAt: now.Add(-time.Second)}, false},
		{"already used", EmailOTP{Used: true, ExpiresAt: now.Add(8 * time.Minute)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.otp.Usable(now); got != tc.want {
				t.Fatalf("Usable = %v, want %v", got, tc.want)
			}
		})
	}
}
