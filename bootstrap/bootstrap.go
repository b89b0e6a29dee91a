// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file with CHAOS_* environment overrides;
// the file can be hot reloaded while the server runs.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esmc/chaos/adapters/clock"
	"github.com/esmc/chaos/adapters/hasher"
	"github.com/esmc/chaos/adapters/idgen"
	"github.com/esmc/chaos/adapters/memory"
	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/adapters/sqlite"
	"github.com/esmc/chaos/app"
	"github.com/esmc/chaos/config"
	"github.com/esmc/chaos/domain/ratelimit"
	"github.com/esmc/chaos/ports"
	"github.com/esmc/chaos/web"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	Registry *app.RegistryService
	Invoker  *app.InvokeService
	Deployer *app.DeployService
	Mesh     *app.MeshService
	Keys     *app.KeyService
	Limiter  *app.RateLimiter
}

// Options controls application initialization.
type Options struct {
	// ConfigPath is the YAML config file. When the file does not exist,
	// configuration is built from environment variables alone.
	ConfigPath string

	// HotReload enables file watching and SIGHUP reload.
	HotReload bool
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := SetupLogger(cfg.Logging)
	logger.Info().Msg("initializing chaos component host")

	a := &App{Logger: logger}

	if err := a.init(cfg); err != nil {
		a.closeDB()
		return nil, err
	}

	if opts.HotReload {
		if err := a.initHotReload(opts.ConfigPath); err != nil {
			logger.Warn().Err(err).Msg("hot reload unavailable, continuing without it")
		}
	}

	return a, nil
}

func (a *App) init(cfg *config.Config) error {
	var (
		componentStore ports.ComponentStore
		invocationLog  ports.InvocationStore
		keyStore       ports.KeyStore
	)

	if cfg.Database.Ephemeral {
		componentStore = memory.NewComponentStore()
		invocationLog = memory.NewInvocationStore()
		keyStore = memory.NewKeyStore()
		a.Logger.Info().Msg("running with ephemeral in-memory stores")
	} else {
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		a.DB = db
		componentStore = sqlite.NewComponentStore(db)
		invocationLog = sqlite.NewInvocationStore(db)
		keyStore = sqlite.NewKeyStore(db)
		a.Logger.Info().Str("dsn", cfg.Database.DSN).Msg("database initialized")
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		a.Logger.Info().Msg("prometheus metrics enabled")
	}

	clk := clock.Real{}

	a.Registry = app.NewRegistryService(componentStore, a.Metrics, a.Logger)
	if err := a.Registry.Rebuild(context.Background(), cfg.RegistrySpec()); err != nil {
		return fmt.Errorf("build fleet: %w", err)
	}

	a.Invoker = app.NewInvokeService(a.Registry, invocationLog, clk, idgen.UUID{}, a.Metrics, a.Logger)
	a.Deployer = app.NewDeployService(a.Registry, a.Invoker, a.Metrics, a.Logger, cfg.Registry.WaveSize)
	a.Mesh = app.NewMeshService(a.Registry, invocationLog, clk, cfg.Mesh.StaleAfter)
	a.Keys = app.NewKeyService(keyStore, hasher.NewBcrypt(0), clk, a.Logger)
	a.Limiter = app.NewRateLimiter(ratelimit.Config{
		Limit:       cfg.RateLimit.Limit,
		Window:      cfg.RateLimitWindow(),
		BurstTokens: cfg.RateLimit.BurstTokens,
	}, clk)

	handler := web.NewHandler(web.Deps{
		Registry:     a.Registry,
		Invoker:      a.Invoker,
		Deployer:     a.Deployer,
		Mesh:         a.Mesh,
		Keys:         a.Keys,
		Limiter:      a.Limiter,
		Metrics:      a.Metrics,
		Logger:       a.Logger,
		Clock:        clk,
		AuthEnabled:  cfg.Auth.Enabled,
		LimitEnabled: cfg.RateLimit.Enabled,
		MetricsPath:  cfg.Metrics.Path,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	a.Logger.Info().
		Str("addr", addr).
		Int("components", a.Registry.Size()).
		Msg("http server configured")
	return nil
}

func (a *App) initHotReload(path string) error {
	holder, err := config.NewHolder(path, a.Logger)
	if err != nil {
		return err
	}
	a.Config = holder

	holder.OnChange(func(cfg *config.Config) {
		if err := a.Registry.Rebuild(context.Background(), cfg.RegistrySpec()); err != nil {
			a.Logger.Error().Err(err).Msg("fleet rebuild after reload failed, keeping current fleet")
			if a.Metrics != nil {
				a.Metrics.ConfigReloadErrors.Inc()
			}
			return
		}
		a.Limiter.SetConfig(ratelimit.Config{
			Limit:       cfg.RateLimit.Limit,
			Window:      cfg.RateLimitWindow(),
			BurstTokens: cfg.RateLimit.BurstTokens,
		})
		a.Deployer.SetWaveSize(cfg.Registry.WaveSize)
		a.Mesh.SetStaleAfter(cfg.Mesh.StaleAfter)
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
	})

	if err := holder.WatchFile(); err != nil {
		return err
	}
	holder.WatchSignals()
	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Config != nil {
		a.Config.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.closeDB()
	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func (a *App) closeDB() {
	if a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("database close error")
	}
	a.DB = nil
}

// SetupLogger builds a zerolog logger from the logging config.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
