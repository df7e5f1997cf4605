// Package hash groups the one-way hashing primitives used by the portal:
// bcrypt for stored password credentials and HMAC-SHA256 for opaque tokens
// that must be looked up by value (refresh tokens).
package hash
