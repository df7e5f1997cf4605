package hash

// Hash is the contract for one-way hashing with verification.
type Hash interface {
	// Hash returns the digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored digest.
	Verify(hashed, plaintext string) bool
}
