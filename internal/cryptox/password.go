// Package cryptox implements the credential store: salted, self-describing
// password hashes and their constant-time verification.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordTooLong is returned by Hash for passwords bcrypt would
	// otherwise truncate (more than 72 bytes).
	ErrPasswordTooLong = errors.New("password too long")

	// ErrMalformedHash is returned by Verify when the stored hash is empty
	// or not a bcrypt hash.
	ErrMalformedHash = errors.New("malformed password hash")
)

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed work
// factor. It holds no mutable state and is safe for concurrent use.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt work factor %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Cost reports the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt hash of plaintext. Every call draws a fresh salt, so
// hashing the same password twice yields different strings.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	pw := []byte(plaintext)
	defer common.WipeByteArray(pw)

	hash, err := bcrypt.GenerateFromPassword(pw, h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash, using the salt and cost
// embedded in hash. A mismatch yields (false, nil); an unusable hash yields
// (false, ErrMalformedHash). It never reports true on error.
func (h *PasswordHasher) Verify(plaintext, hash string) (bool, error) {
	if hash == "" {
		return false, ErrMalformedHash
	}

	pw := []byte(plaintext)
	defer common.WipeByteArray(pw)

	err := bcrypt.CompareHashAndPassword([]byte(hash), pw)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
