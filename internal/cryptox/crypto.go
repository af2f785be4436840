// Package cryptox hashes and verifies account passwords.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns passwords into salted hashes and checks candidates
// against them.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(hash []byte, password string) (bool, error)
}

// BcryptHasher is a PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Verify reports whether password matches hash. A mismatch is not an error.
func (h *BcryptHasher) Verify(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
