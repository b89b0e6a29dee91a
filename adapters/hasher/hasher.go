// Package hasher provides secret hashing implementations.
package hasher

import (
	"github.com/esmc/chaos/ports"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes secrets with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. Out-of-range costs fall back to the
// bcrypt default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash generates a bcrypt hash of plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare reports whether plaintext matches hash.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

var _ ports.Hasher = (*Bcrypt)(nil)

// Plain stores secrets as-is. Test use only.
type Plain struct{}

// Hash returns plaintext unchanged.
func (Plain) Hash(plaintext string) ([]byte, error) {
	return []byte(plaintext), nil
}

// Compare does a string equality check.
func (Plain) Compare(hash []byte, plaintext string) bool {
	return string(hash) == plaintext
}

var _ ports.Hasher = Plain{}
