// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/digest"
	"github.com/esmc/chaos/ports"
	"github.com/rs/zerolog"
)

// Errors returned by registry lookups.
var (
	ErrComponentNotFound = errors.New("component not found")
	ErrOpNotFound        = errors.New("operation not found")
)

// RegistryService owns the generated component fleet. The in-memory fleet is
// authoritative; the component store holds the persisted descriptors.
type RegistryService struct {
	store   ports.ComponentStore
	metrics *metrics.Collector
	logger  zerolog.Logger

	mu          sync.RWMutex
	fleet       []component.Component
	byName      map[string]component.Component
	snapshot    []byte // serialized descriptors of the current fleet
	fingerprint string // SHA-256 of snapshot
}

// NewRegistryService creates a registry service with an empty fleet.
func NewRegistryService(store ports.ComponentStore, m *metrics.Collector, logger zerolog.Logger) *RegistryService {
	return &RegistryService{
		store:   store,
		metrics: m,
		logger:  logger,
		byName:  make(map[string]component.Component),
	}
}

// Rebuild generates the fleet from spec and swaps it in. The persisted
// descriptors are replaced to match. A bad spec leaves the current fleet
// untouched.
func (s *RegistryService) Rebuild(ctx context.Context, spec component.Spec) error {
	fleet, err := component.Generate(spec)
	if err != nil {
		return fmt.Errorf("generate fleet: %w", err)
	}

	if err := s.store.Replace(ctx, fleet); err != nil {
		return fmt.Errorf("persist fleet: %w", err)
	}

	byName := make(map[string]component.Component, len(fleet))
	for _, c := range fleet {
		byName[c.Name] = c
	}

	snapshot, err := json.Marshal(fleet)
	if err != nil {
		return fmt.Errorf("serialize fleet: %w", err)
	}
	fingerprint := digest.SHA256Hex(snapshot)

	s.mu.Lock()
	changed := !digest.Equal(s.snapshot, snapshot)
	s.fleet = fleet
	s.byName = byName
	s.snapshot = snapshot
	s.fingerprint = fingerprint
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RegistryRebuilds.Inc()
		perKind := make(map[component.Kind]int)
		for _, c := range fleet {
			perKind[c.Kind]++
		}
		for _, k := range component.Kinds {
			s.metrics.RegistryComponents.WithLabelValues(string(k)).Set(float64(perKind[k]))
		}
	}

	s.logger.Info().
		Int("components", len(fleet)).
		Str("fingerprint", fingerprint[:12]).
		Bool("changed", changed).
		Msg("component fleet rebuilt")
	return nil
}

// Fingerprint returns the SHA-256 fingerprint of the current fleet's
// serialized descriptors. The same generation spec always yields the same
// fingerprint.
func (s *RegistryService) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// Get returns a component by name.
func (s *RegistryService) Get(name string) (component.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byName[name]
	if !ok {
		return component.Component{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return c, nil
}

// Resolve returns a component and checks it exposes the named operation.
func (s *RegistryService) Resolve(name, op string) (component.Component, error) {
	c, err := s.Get(name)
	if err != nil {
		return component.Component{}, err
	}
	if !c.HasOp(op) {
		return component.Component{}, fmt.Errorf("%w: %s/%s", ErrOpNotFound, name, op)
	}
	return c, nil
}

// List returns the fleet, optionally filtered by kind ("" = all).
func (s *RegistryService) List(kind component.Kind) []component.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]component.Component, 0, len(s.fleet))
	for _, c := range s.fleet {
		if kind != "" && c.Kind != kind {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Size returns the fleet size.
func (s *RegistryService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fleet)
}
