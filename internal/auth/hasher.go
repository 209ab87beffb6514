// Package auth implements the authentication core: password hashing, signed
// token issuance and verification, and the service orchestrating
// registration, login, refresh, and principal resolution.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies passwords with bcrypt. Every Hash call
// embeds a fresh random salt, so hashing the same plaintext twice yields
// different outputs.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed hash
// verifies as false rather than erroring, so callers cannot tell it apart
// from a wrong password.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
