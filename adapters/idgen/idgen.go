// Package idgen provides ID generation implementations.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/esmc/chaos/ports"
	"github.com/google/uuid"
)

// UUID generates UUID v4 identifiers.
type UUID struct{}

// New returns a new UUID string.
func (UUID) New() string {
	return uuid.New().String()
}

var _ ports.IDGenerator = UUID{}

// Sequential generates predictable IDs for tests.
type Sequential struct {
	prefix  string
	counter uint64
}

// NewSequential creates a sequential generator with the given prefix.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next ID in sequence.
func (s *Sequential) New() string {
	return fmt.Sprintf("%s%d", s.prefix, atomic.AddUint64(&s.counter, 1))
}

var _ ports.IDGenerator = (*Sequential)(nil)
