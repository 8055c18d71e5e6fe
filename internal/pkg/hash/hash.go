// Package hash wraps the secret-hashing primitives the service relies on:
// bcrypt for stored passwords and HMAC-SHA256 for refresh tokens at rest.
package hash

// Hash hashes a plaintext and verifies a plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
