package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/esmc/chaos/domain/mesh"
	"github.com/esmc/chaos/ports"
)

// MeshService derives mesh status from the registry and the invocation log.
type MeshService struct {
	registry *RegistryService
	log      ports.InvocationStore
	clock    ports.Clock

	mu         sync.RWMutex
	staleAfter time.Duration
}

// NewMeshService creates a mesh service.
func NewMeshService(registry *RegistryService, log ports.InvocationStore, clock ports.Clock, staleAfter time.Duration) *MeshService {
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}
	return &MeshService{
		registry:   registry,
		log:        log,
		clock:      clock,
		staleAfter: staleAfter,
	}
}

// SetStaleAfter swaps the staleness window (used on config reload).
func (s *MeshService) SetStaleAfter(d time.Duration) {
	if d <= 0 {
		d = 5 * time.Minute
	}
	s.mu.Lock()
	s.staleAfter = d
	s.mu.Unlock()
}

// Status aggregates one report per registered component. A component is
// healthy once it has been invoked at least once; LastSeen comes from the
// invocation log.
func (s *MeshService) Status(ctx context.Context) (mesh.Status, error) {
	counts, err := s.log.CountByComponent(ctx)
	if err != nil {
		return mesh.Status{}, fmt.Errorf("invocation counts: %w", err)
	}
	last, err := s.log.LastByComponent(ctx)
	if err != nil {
		return mesh.Status{}, fmt.Errorf("last invocations: %w", err)
	}

	fleet := s.registry.List("")
	reports := make([]mesh.Report, 0, len(fleet))
	for _, c := range fleet {
		reports = append(reports, mesh.Report{
			Name:        c.Name,
			Healthy:     counts[c.Name] > 0,
			LastSeen:    last[c.Name],
			Invocations: counts[c.Name],
		})
	}

	s.mu.RLock()
	staleAfter := s.staleAfter
	s.mu.RUnlock()

	return mesh.Aggregate(s.clock.Now(), reports, staleAfter), nil
}
