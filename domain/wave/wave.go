// Package wave plans component deployments in ranked waves.
// Planning is a PURE function - the same fleet and wave size always produce
// the same plan. Execution status lives on the units and is advanced by the
// deploy service, never by this package.
package wave

import (
	"errors"

	"github.com/esmc/chaos/domain/component"
)

// Unit deployment statuses.
const (
	StatusPending   = "pending"
	StatusDeploying = "deploying"
	StatusDeployed  = "deployed"
	StatusFailed    = "failed"
)

// ErrBadWaveSize is returned when the wave size is not positive.
var ErrBadWaveSize = errors.New("wave size must be at least 1")

// Unit is one component's place in a deployment plan (value type).
type Unit struct {
	Component string `json:"component"`
	Rank      int    `json:"rank"` // position within the wave, 0-based
	Wave      int    `json:"wave"` // wave index, 0-based
	Status    string `json:"status"`
}

// Plan is an ordered set of deployment waves.
type Plan struct {
	Waves [][]Unit `json:"waves"`
}

// Units flattens the plan in deployment order.
func (p Plan) Units() []Unit {
	var all []Unit
	for _, w := range p.Waves {
		all = append(all, w...)
	}
	return all
}

// Size returns the total number of units in the plan.
func (p Plan) Size() int {
	n := 0
	for _, w := range p.Waves {
		n += len(w)
	}
	return n
}

// Build partitions the fleet into waves of at most waveSize components.
// Fleet order is preserved: component i lands in wave i/waveSize with rank
// i%waveSize. Every component appears in exactly one wave and all units start
// pending.
func Build(fleet []component.Component, waveSize int) (Plan, error) {
	if waveSize < 1 {
		return Plan{}, ErrBadWaveSize
	}

	var plan Plan
	for i, c := range fleet {
		w := i / waveSize
		if w == len(plan.Waves) {
			plan.Waves = append(plan.Waves, nil)
		}
		plan.Waves[w] = append(plan.Waves[w], Unit{
			Component: c.Name,
			Rank:      i % waveSize,
			Wave:      w,
			Status:    StatusPending,
		})
	}
	return plan, nil
}
