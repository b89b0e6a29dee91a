// Package mesh aggregates per-component reports into a fleet-wide status.
// Aggregate is a PURE function - no side effects, deterministic.
package mesh

import "time"

// Report is one component's view of itself (value type).
type Report struct {
	Name        string    `json:"name"`
	Healthy     bool      `json:"healthy"`
	LastSeen    time.Time `json:"last_seen"`
	Invocations int64     `json:"invocations"`
}

// Status is the aggregated mesh view (value type).
type Status struct {
	Nodes       int       `json:"nodes"`
	Healthy     int       `json:"healthy"`
	Stale       int       `json:"stale"`
	Invocations int64     `json:"invocations"`
	Degraded    bool      `json:"degraded"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Aggregate folds reports into a mesh status. A node is stale when its
// LastSeen is older than staleAfter (zero LastSeen counts as stale). The mesh
// is degraded when it has no nodes, or when fewer than half of them are
// healthy and fresh.
func Aggregate(now time.Time, reports []Report, staleAfter time.Duration) Status {
	s := Status{
		Nodes:       len(reports),
		GeneratedAt: now,
	}

	for _, r := range reports {
		s.Invocations += r.Invocations

		stale := r.LastSeen.IsZero() || now.Sub(r.LastSeen) > staleAfter
		if stale {
			s.Stale++
			continue
		}
		if r.Healthy {
			s.Healthy++
		}
	}

	s.Degraded = s.Nodes == 0 || s.Healthy*2 < s.Nodes
	return s
}
