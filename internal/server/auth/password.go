package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/placerate/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password, in bytes, that bcrypt accepts.
const MaxPasswordLength = 72

// PasswordHasher turns plaintext passwords into stored digests and checks
// candidates against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns common.ErrorInvalidCredential on a mismatch.
	Compare(hash, password string) error
}

// BcryptHasher is the PasswordHasher used by the server.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt digest of password. A password longer than
// MaxPasswordLength is rejected with common.ErrorValidation.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password exceeds %d bytes", common.ErrorValidation, MaxPasswordLength)
		}
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorInvalidCredential
	}
	return err
}
