package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/ports"
)

// ErrNotFound is returned when an entity is not found.
var ErrNotFound = errors.New("not found")

// ComponentStore keeps component descriptors in memory.
type ComponentStore struct {
	mu    sync.RWMutex
	fleet []component.Component
}

// NewComponentStore creates an empty in-memory component store.
func NewComponentStore() *ComponentStore {
	return &ComponentStore{}
}

// Replace swaps the stored fleet.
func (s *ComponentStore) Replace(_ context.Context, fleet []component.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fleet = append([]component.Component(nil), fleet...)
	return nil
}

// Get retrieves a component by name.
func (s *ComponentStore) Get(_ context.Context, name string) (component.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.fleet {
		if c.Name == name {
			return c, nil
		}
	}
	return component.Component{}, ErrNotFound
}

// List returns components, optionally filtered by kind.
func (s *ComponentStore) List(_ context.Context, kind component.Kind) ([]component.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]component.Component, 0, len(s.fleet))
	for _, c := range s.fleet {
		if kind != "" && c.Kind != kind {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Count returns the fleet size.
func (s *ComponentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fleet), nil
}

var _ ports.ComponentStore = (*ComponentStore)(nil)
