// Package memory provides in-memory store implementations for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/esmc/chaos/ports"
)

// InvocationStore keeps the invocation log in memory.
type InvocationStore struct {
	mu   sync.RWMutex
	rows []ports.Invocation
}

// NewInvocationStore creates an empty in-memory invocation store.
func NewInvocationStore() *InvocationStore {
	return &InvocationStore{}
}

// Record appends one invocation.
func (s *InvocationStore) Record(_ context.Context, inv ports.Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, inv)
	return nil
}

// Recent returns the newest invocations, most recent first.
// A non-positive limit falls back to 50, matching the SQLite store.
func (s *InvocationStore) Recent(_ context.Context, limit int) ([]ports.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	out := make([]ports.Invocation, 0, limit)
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

// CountByComponent returns invocation counts keyed by component name.
func (s *InvocationStore) CountByComponent(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, inv := range s.rows {
		counts[inv.Component]++
	}
	return counts, nil
}

// LastByComponent returns the newest invocation time per component.
func (s *InvocationStore) LastByComponent(_ context.Context) (map[string]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := make(map[string]time.Time)
	for _, inv := range s.rows {
		if inv.CreatedAt.After(last[inv.Component]) {
			last[inv.Component] = inv.CreatedAt
		}
	}
	return last, nil
}

// DeleteBefore prunes invocations older than cutoff.
func (s *InvocationStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[:0]
	var removed int64
	for _, inv := range s.rows {
		if inv.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, inv)
	}
	s.rows = kept
	return removed, nil
}

var _ ports.InvocationStore = (*InvocationStore)(nil)
