package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/job-portal/internal/domain"
)

// DefaultCost matches the work factor accounts were historically hashed with.
const DefaultCost = 10

// BcryptHasher hashes passwords with a fixed cost. Hashes from any cost
// still verify, so changing BCRYPT_COST does not lock anyone out.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare returns nil on a match, invalid_credentials on a mismatch and
// hash_failed when the stored hash is unusable.
func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrInvalidCredentials()
	default:
		return domain.ErrHashFailed(err)
	}
}
