package app_test

import (
	"context"
	"testing"

	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/app"
	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/wave"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func TestDeploy_AllUnitsDeployed(t *testing.T) {
	f := newFixture(t, smallSpec())
	m := metrics.NewWith(prometheus.NewRegistry())
	deployer := app.NewDeployService(f.registry, f.invoker, m, zerolog.Nop(), 3)

	result, err := deployer.Deploy(context.Background())
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	if result.Deployed != 4 || result.Failed != 0 {
		t.Errorf("deployed/failed = %d/%d, want 4/0", result.Deployed, result.Failed)
	}
	if len(result.Plan.Waves) != 2 {
		t.Errorf("waves = %d, want 2 (4 units, wave size 3)", len(result.Plan.Waves))
	}
	for _, u := range result.Plan.Units() {
		if u.Status != wave.StatusDeployed {
			t.Errorf("unit %s status = %q, want deployed", u.Component, u.Status)
		}
	}
}

func TestDeploy_ProbesEveryComponentOnce(t *testing.T) {
	f := newFixture(t, smallSpec())
	deployer := app.NewDeployService(f.registry, f.invoker, nil, zerolog.Nop(), 2)

	if _, err := deployer.Deploy(context.Background()); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	counts, err := f.log.CountByComponent(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for _, c := range f.registry.List("") {
		if counts[c.Name] != 1 {
			t.Errorf("component %s probed %d times, want 1", c.Name, counts[c.Name])
		}
	}
}

func TestDeploy_SetWaveSizeAppliesToNextRun(t *testing.T) {
	f := newFixture(t, smallSpec())
	deployer := app.NewDeployService(f.registry, f.invoker, nil, zerolog.Nop(), 3)

	deployer.SetWaveSize(1)

	result, err := deployer.Deploy(context.Background())
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if len(result.Plan.Waves) != 4 {
		t.Errorf("waves = %d, want 4 after shrinking wave size to 1", len(result.Plan.Waves))
	}
	for wi, units := range result.Plan.Waves {
		if len(units) != 1 {
			t.Errorf("wave %d has %d units, want 1", wi, len(units))
		}
	}
}

func TestDeploy_EmptyFleet(t *testing.T) {
	f := newFixture(t, component.Spec{Kinds: component.Kinds, PerKind: 0})
	deployer := app.NewDeployService(f.registry, f.invoker, nil, zerolog.Nop(), 2)

	result, err := deployer.Deploy(context.Background())
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if result.Deployed != 0 || result.Failed != 0 || len(result.Plan.Waves) != 0 {
		t.Errorf("empty fleet result = %+v", result)
	}
}

func TestDeploy_CancelledContext(t *testing.T) {
	f := newFixture(t, smallSpec())
	deployer := app.NewDeployService(f.registry, f.invoker, nil, zerolog.Nop(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := deployer.Deploy(ctx); err == nil {
		t.Fatal("Deploy with cancelled context succeeded")
	}
}
