package metrics_test

import (
	"testing"

	"github.com/esmc/chaos/adapters/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestNewWith_AllMetricsInitialized(t *testing.T) {
	// Use a private registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)

	if m.InvocationsTotal == nil {
		t.Error("InvocationsTotal is nil")
	}
	if m.InvocationDuration == nil {
		t.Error("InvocationDuration is nil")
	}
	if m.InvocationsInFlight == nil {
		t.Error("InvocationsInFlight is nil")
	}
	if m.RegistryComponents == nil {
		t.Error("RegistryComponents is nil")
	}
	if m.DeploysTotal == nil {
		t.Error("DeploysTotal is nil")
	}
	if m.AuthFailures == nil {
		t.Error("AuthFailures is nil")
	}
	if m.RateLimitHits == nil {
		t.Error("RateLimitHits is nil")
	}
	if m.ConfigReloads == nil {
		t.Error("ConfigReloads is nil")
	}
}

func TestInvocationsTotal_Gathers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)

	m.InvocationsTotal.WithLabelValues("hash", "ok").Inc()
	m.InvocationsTotal.WithLabelValues("colonel", "error").Add(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() == "chaos_invocations_total" {
			found = true
			if len(fam.GetMetric()) != 2 {
				t.Errorf("series = %d, want 2", len(fam.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("chaos_invocations_total not gathered")
	}
}
