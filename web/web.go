// Package web provides the JSON API for the component host.
package web

import (
	"net/http"
	"time"

	"github.com/esmc/chaos/adapters/clock"
	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/app"
	"github.com/esmc/chaos/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handler serves the component host API.
type Handler struct {
	registry *app.RegistryService
	invoker  *app.InvokeService
	deployer *app.DeployService
	mesh     *app.MeshService
	keys     *app.KeyService
	limiter  *app.RateLimiter
	metrics  *metrics.Collector
	logger   zerolog.Logger
	clock    ports.Clock

	authEnabled  bool
	limitEnabled bool
	metricsPath  string
	startTime    time.Time
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Registry *app.RegistryService
	Invoker  *app.InvokeService
	Deployer *app.DeployService
	Mesh     *app.MeshService
	Keys     *app.KeyService
	Limiter  *app.RateLimiter
	Metrics  *metrics.Collector
	Logger   zerolog.Logger
	Clock    ports.Clock

	AuthEnabled  bool
	LimitEnabled bool
	MetricsPath  string
}

// NewHandler creates the API handler.
func NewHandler(deps Deps) *Handler {
	metricsPath := deps.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &Handler{
		registry:     deps.Registry,
		invoker:      deps.Invoker,
		deployer:     deps.Deployer,
		mesh:         deps.Mesh,
		keys:         deps.Keys,
		limiter:      deps.Limiter,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		clock:        clk,
		authEnabled:  deps.AuthEnabled,
		limitEnabled: deps.LimitEnabled,
		metricsPath:  metricsPath,
		startTime:    time.Now(),
	}
}

// Router builds the chi router for the API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, h.metricsPath, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/components", h.handleListComponents)
		r.Get("/components/{name}", h.handleGetComponent)
		r.Get("/mesh", h.handleMeshStatus)
		r.Get("/invocations", h.handleRecentInvocations)

		// Mutating routes carry auth and rate limiting
		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Use(h.rateLimit)
			r.Post("/components/{name}/ops/{op}", h.handleInvoke)
			r.Post("/deploy", h.handleDeploy)
		})
	})

	return r
}
