package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned when a password cannot be hashed as text.
var ErrInvalidPassword = errors.New("password must be valid UTF-8 of at most 72 bytes")

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a self-describing bcrypt hash (algorithm, cost and salt encoded).
func (h *PasswordHasher) Hash(password string) (string, error) {
	if !utf8.ValidString(password) || len(password) > MaxPasswordBytes {
		return "", ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// HashBytes decodes raw bytes as UTF-8 text before hashing.
func (h *PasswordHasher) HashBytes(password []byte) (string, error) {
	if !utf8.Valid(password) {
		return "", ErrInvalidPassword
	}
	return h.Hash(string(password))
}

// Verify reports whether plain matches hashed. A mismatch is (false, nil); only a
// structurally invalid stored hash yields an error.
func (h *PasswordHasher) Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
