// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/key"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher hashes and compares secrets.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ComponentStore persists component descriptors.
type ComponentStore interface {
	// Replace swaps the stored fleet for the given one atomically.
	Replace(ctx context.Context, fleet []component.Component) error

	// Get retrieves a component by name.
	Get(ctx context.Context, name string) (component.Component, error)

	// List returns all components, optionally filtered by kind ("" = all).
	List(ctx context.Context, kind component.Kind) ([]component.Component, error)

	// Count returns the fleet size.
	Count(ctx context.Context) (int, error)
}

// Invocation is one recorded operation dispatch.
type Invocation struct {
	ID        string
	Component string
	Op        string
	Status    string // envelope status: "ok" or "error"
	Digest    string // short fingerprint of the serialized envelope
	Duration  time.Duration
	CreatedAt time.Time
}

// InvocationStore persists the invocation log.
type InvocationStore interface {
	// Record appends one invocation.
	Record(ctx context.Context, inv Invocation) error

	// Recent returns the newest invocations, most recent first.
	// A non-positive limit falls back to 50.
	Recent(ctx context.Context, limit int) ([]Invocation, error)

	// CountByComponent returns invocation counts keyed by component name.
	CountByComponent(ctx context.Context) (map[string]int64, error)

	// LastByComponent returns the newest invocation time per component.
	LastByComponent(ctx context.Context) (map[string]time.Time, error)

	// DeleteBefore prunes invocations older than cutoff, returning the
	// number removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// KeyStore persists API keys.
type KeyStore interface {
	// Create stores a new key.
	Create(ctx context.Context, k key.Key) error

	// GetByPrefix retrieves keys matching a lookup prefix.
	GetByPrefix(ctx context.Context, prefix string) ([]key.Key, error)

	// List returns all keys.
	List(ctx context.Context) ([]key.Key, error)

	// Revoke marks a key as revoked.
	Revoke(ctx context.Context, id string, at time.Time) error
}
