package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns an owner password into its stored form and verifies a
// candidate against it.
type Hasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

// MaxPasswordBytes is the longest secret bcrypt accepts.
const MaxPasswordBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash owner password: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
