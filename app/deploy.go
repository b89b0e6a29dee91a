package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/wave"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DeployService runs wave deployments over the fleet. Waves execute in
// order; components within a wave are probed concurrently.
type DeployService struct {
	registry *RegistryService
	invoker  *InvokeService
	metrics  *metrics.Collector
	logger   zerolog.Logger

	sizeMu   sync.Mutex
	waveSize int
}

// NewDeployService creates a deploy service.
func NewDeployService(
	registry *RegistryService,
	invoker *InvokeService,
	m *metrics.Collector,
	logger zerolog.Logger,
	waveSize int,
) *DeployService {
	if waveSize < 1 {
		waveSize = 1
	}
	return &DeployService{
		registry: registry,
		invoker:  invoker,
		metrics:  m,
		logger:   logger,
		waveSize: waveSize,
	}
}

// SetWaveSize swaps the wave size (used on config reload). A running
// deployment keeps the size it started with.
func (s *DeployService) SetWaveSize(n int) {
	if n < 1 {
		n = 1
	}
	s.sizeMu.Lock()
	s.waveSize = n
	s.sizeMu.Unlock()
}

// DeployResult is the outcome of one deployment run.
type DeployResult struct {
	Plan     wave.Plan `json:"plan"`
	Deployed int       `json:"deployed"`
	Failed   int       `json:"failed"`
}

// Deploy plans waves over the current fleet and probes each component once
// (its first operation). A component with no operations deploys trivially.
// A context cancellation stops between waves; the remaining units keep their
// pending status.
func (s *DeployService) Deploy(ctx context.Context) (DeployResult, error) {
	s.sizeMu.Lock()
	waveSize := s.waveSize
	s.sizeMu.Unlock()

	fleet := s.registry.List("")
	plan, err := wave.Build(fleet, waveSize)
	if err != nil {
		return DeployResult{}, fmt.Errorf("build plan: %w", err)
	}

	byName := make(map[string]component.Component, len(fleet))
	for _, c := range fleet {
		byName[c.Name] = c
	}

	start := s.invoker.clock.Now()
	result := DeployResult{Plan: plan}

	for wi := range plan.Waves {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("deploy interrupted before wave %d: %w", wi, err)
		}

		s.logger.Info().Int("wave", wi).Int("units", len(plan.Waves[wi])).Msg("deploying wave")

		var mu sync.Mutex
		grp, grpCtx := errgroup.WithContext(ctx)
		grp.SetLimit(waveSize)

		for ui := range plan.Waves[wi] {
			unit := &plan.Waves[wi][ui]
			unit.Status = wave.StatusDeploying

			grp.Go(func() error {
				status := wave.StatusDeployed
				c := byName[unit.Component]
				if len(c.Ops) > 0 {
					if _, err := s.invoker.Invoke(grpCtx, c.Name, c.Ops[0], probeParam(c)); err != nil {
						status = wave.StatusFailed
					}
				}

				mu.Lock()
				unit.Status = status
				if status == wave.StatusDeployed {
					result.Deployed++
				} else {
					result.Failed++
				}
				mu.Unlock()
				return nil
			})
		}

		// Probe failures mark the unit, they never abort the wave.
		if err := grp.Wait(); err != nil {
			return result, fmt.Errorf("wave %d: %w", wi, err)
		}
	}

	if s.metrics != nil {
		outcome := "ok"
		if result.Failed > 0 {
			outcome = "partial"
		}
		s.metrics.DeploysTotal.WithLabelValues(outcome).Inc()
		s.metrics.DeployDuration.Observe(s.invoker.clock.Now().Sub(start).Seconds())
	}

	s.logger.Info().
		Int("deployed", result.Deployed).
		Int("failed", result.Failed).
		Int("waves", len(plan.Waves)).
		Msg("deployment finished")

	return result, nil
}

// probeParam is the payload sent on deployment probes.
func probeParam(c component.Component) map[string]any {
	return map[string]any{
		"probe":     true,
		"component": c.Name,
		"version":   c.Version,
	}
}
