// Package metrics provides Prometheus metrics collection for the component
// host.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics.
type Collector struct {
	// Invocation metrics
	InvocationsTotal   *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec
	InvocationsInFlight prometheus.Gauge

	// Registry metrics
	RegistryComponents *prometheus.GaugeVec
	RegistryRebuilds   prometheus.Counter

	// Deploy metrics
	DeploysTotal   *prometheus.CounterVec
	DeployDuration prometheus.Histogram

	// Auth / limit metrics
	AuthFailures  *prometheus.CounterVec
	RateLimitHits *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector with all metrics registered on the default
// registry.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered on reg. Tests pass a private
// registry so parallel tests do not collide.
func NewWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		InvocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "invocations_total",
				Help:      "Total component operation invocations",
			},
			[]string{"kind", "status"},
		),
		InvocationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chaos",
				Name:      "invocation_duration_seconds",
				Help:      "Operation dispatch duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"kind"},
		),
		InvocationsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "chaos",
				Name:      "invocations_in_flight",
				Help:      "Invocations currently being dispatched",
			},
		),

		RegistryComponents: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "chaos",
				Name:      "registry_components",
				Help:      "Registered components by kind",
			},
			[]string{"kind"},
		),
		RegistryRebuilds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "registry_rebuilds_total",
				Help:      "Total fleet rebuilds",
			},
		),

		DeploysTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "deploys_total",
				Help:      "Total wave deployments by outcome",
			},
			[]string{"outcome"},
		),
		DeployDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "chaos",
				Name:      "deploy_duration_seconds",
				Help:      "Wave deployment duration in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "rate_limit_hits_total",
				Help:      "Total rate limit denials",
			},
			[]string{"key_id"},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "config_reloads_total",
				Help:      "Total successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chaos",
				Name:      "config_reload_errors_total",
				Help:      "Total failed config reloads",
			},
		),
	}
}
