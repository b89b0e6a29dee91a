// Package key provides API key value types and pure validation functions.
// Keys guard the mutating endpoints of the component host.
package key

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Prefix is the fixed prefix of every raw key. A raw key is the prefix plus
// 64 hex chars.
const Prefix = "ck_"

// PrefixLen is how many leading characters of a raw key are stored in clear
// for lookup.
const PrefixLen = 12

// Key represents an API key (immutable value type).
type Key struct {
	ID        string
	Hash      []byte // bcrypt hash of the full raw key
	Prefix    string // first PrefixLen chars for lookup
	Name      string
	CreatedAt time.Time
	RevokedAt *time.Time // nil = not revoked
}

// ValidationResult represents the outcome of key validation (value type).
type ValidationResult struct {
	Valid  bool
	Key    Key    // populated only if Valid
	Reason string // populated only if not Valid
}

// Reasons for validation failure.
const (
	ReasonNotFound  = "key_not_found"
	ReasonRevoked   = "key_revoked"
	ReasonBadFormat = "invalid_format"
)

// Generate creates a new API key.
// Returns the raw key (shown to the operator once) and the Key to store.
func Generate(name string, now time.Time) (rawKey string, k Key) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	rawKey = Prefix + hex.EncodeToString(randomBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt failed: %v", err))
	}

	idBytes := make([]byte, 8)
	rand.Read(idBytes)

	k = Key{
		ID:        "key_" + hex.EncodeToString(idBytes),
		Hash:      hash,
		Prefix:    rawKey[:PrefixLen],
		Name:      name,
		CreatedAt: now.UTC(),
	}
	return rawKey, k
}
