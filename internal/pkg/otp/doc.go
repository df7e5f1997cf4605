// Package otp generates the short numeric one-time codes mailed to users
// during email verification. Codes are random (not time-based); validity is
// decided by the persisted record they are stored against.
package otp
