package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/esmc/chaos/app"
)

func TestMeshStatus_FreshFleetIsDegraded(t *testing.T) {
	f := newFixture(t, smallSpec())
	meshSvc := app.NewMeshService(f.registry, f.log, f.clock, 5*time.Minute)

	s, err := meshSvc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Nodes != 4 {
		t.Errorf("nodes = %d, want 4", s.Nodes)
	}
	if s.Healthy != 0 {
		t.Errorf("healthy = %d, want 0 before any invocation", s.Healthy)
	}
	if !s.Degraded {
		t.Error("never-invoked fleet should read as degraded")
	}
}

func TestMeshStatus_HealthyAfterInvocations(t *testing.T) {
	f := newFixture(t, smallSpec())
	meshSvc := app.NewMeshService(f.registry, f.log, f.clock, 5*time.Minute)
	ctx := context.Background()

	for _, c := range f.registry.List("") {
		if _, err := f.invoker.Invoke(ctx, c.Name, c.Ops[0], "ping"); err != nil {
			t.Fatalf("Invoke %s: %v", c.Name, err)
		}
	}
	f.clock.Advance(time.Minute)

	s, err := meshSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Healthy != 4 || s.Stale != 0 {
		t.Errorf("healthy/stale = %d/%d, want 4/0", s.Healthy, s.Stale)
	}
	if s.Degraded {
		t.Error("fully invoked fleet should not be degraded")
	}
	if s.Invocations != 4 {
		t.Errorf("invocations = %d, want 4", s.Invocations)
	}
}

func TestMeshStatus_SetStaleAfterApplies(t *testing.T) {
	f := newFixture(t, smallSpec())
	meshSvc := app.NewMeshService(f.registry, f.log, f.clock, 5*time.Minute)
	ctx := context.Background()

	for _, c := range f.registry.List("") {
		if _, err := f.invoker.Invoke(ctx, c.Name, c.Ops[0], "ping"); err != nil {
			t.Fatalf("Invoke %s: %v", c.Name, err)
		}
	}
	f.clock.Advance(2 * time.Minute)

	s, err := meshSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Stale != 0 {
		t.Fatalf("stale = %d, want 0 under the 5m window", s.Stale)
	}

	meshSvc.SetStaleAfter(time.Minute)

	s, err = meshSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Stale != 4 {
		t.Errorf("stale = %d, want 4 after tightening the window to 1m", s.Stale)
	}
}

func TestMeshStatus_NodesGoStale(t *testing.T) {
	f := newFixture(t, smallSpec())
	meshSvc := app.NewMeshService(f.registry, f.log, f.clock, 5*time.Minute)
	ctx := context.Background()

	for _, c := range f.registry.List("") {
		if _, err := f.invoker.Invoke(ctx, c.Name, c.Ops[0], "ping"); err != nil {
			t.Fatalf("Invoke %s: %v", c.Name, err)
		}
	}
	f.clock.Advance(time.Hour)

	s, err := meshSvc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if s.Stale != 4 {
		t.Errorf("stale = %d, want 4 after an idle hour", s.Stale)
	}
	if !s.Degraded {
		t.Error("all-stale mesh should be degraded")
	}
}
