// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/esmc/chaos/domain/component"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Registry  RegistryConfig  `yaml:"registry"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	Ephemeral bool   `yaml:"ephemeral"` // keep stores in memory, nothing on disk
}

// RegistryConfig describes the component fleet to generate.
// PerKind is a pointer so an explicit 0 (an intentionally empty fleet)
// survives defaulting.
type RegistryConfig struct {
	Kinds           []string `yaml:"kinds"`             // empty = all kinds
	PerKind         *int     `yaml:"per_kind"`          // components per kind
	OpsPerComponent int      `yaml:"ops_per_component"` // generated ops per component
	Version         string   `yaml:"version"`
	WaveSize        int      `yaml:"wave_size"` // components per deployment wave
}

// AuthConfig configures API key authentication.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RateLimitConfig configures per-key invocation limiting.
type RateLimitConfig struct {
	Enabled     bool `yaml:"enabled"`
	Limit       int  `yaml:"limit"` // invocations per window
	WindowSecs  int  `yaml:"window_secs"`
	BurstTokens int  `yaml:"burst_tokens"`
}

// MeshConfig configures mesh status aggregation.
type MeshConfig struct {
	StaleAfter time.Duration `yaml:"stale_after"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default /metrics
}

// Load reads configuration from a YAML file, applies CHAOS_* environment
// overrides, fills defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables referenced in the file
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv builds configuration entirely from CHAOS_* environment
// variables. Useful for container deployments with no config file.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback tries the file first, then environment variables.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// RegistrySpec converts the registry section into a generation spec.
func (c *Config) RegistrySpec() component.Spec {
	kinds := make([]component.Kind, 0, len(c.Registry.Kinds))
	for _, k := range c.Registry.Kinds {
		kinds = append(kinds, component.Kind(k))
	}
	return component.Spec{
		Kinds:           kinds,
		PerKind:         *c.Registry.PerKind,
		OpsPerComponent: c.Registry.OpsPerComponent,
		Version:         c.Registry.Version,
	}
}

// RateLimitWindow returns the limiter window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSecs) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHAOS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CHAOS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CHAOS_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CHAOS_DATABASE_EPHEMERAL"); v != "" {
		cfg.Database.Ephemeral = parseBool(v)
	}
	if v := os.Getenv("CHAOS_REGISTRY_PER_KIND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registry.PerKind = &n
		}
	}
	if v := os.Getenv("CHAOS_REGISTRY_OPS_PER_COMPONENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registry.OpsPerComponent = n
		}
	}
	if v := os.Getenv("CHAOS_REGISTRY_KINDS"); v != "" {
		cfg.Registry.Kinds = strings.Split(v, ",")
	}
	if v := os.Getenv("CHAOS_REGISTRY_WAVE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registry.WaveSize = n
		}
	}
	if v := os.Getenv("CHAOS_AUTH_ENABLED"); v != "" {
		cfg.Auth.Enabled = parseBool(v)
	}
	if v := os.Getenv("CHAOS_RATELIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("CHAOS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CHAOS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CHAOS_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "chaos.db"
	}
	if len(cfg.Registry.Kinds) == 0 {
		for _, k := range component.Kinds {
			cfg.Registry.Kinds = append(cfg.Registry.Kinds, string(k))
		}
	}
	if cfg.Registry.PerKind == nil {
		perKind := 4
		cfg.Registry.PerKind = &perKind
	}
	if cfg.Registry.OpsPerComponent == 0 {
		cfg.Registry.OpsPerComponent = 20
	}
	if cfg.Registry.Version == "" {
		cfg.Registry.Version = component.DefaultVersion
	}
	if cfg.Registry.WaveSize == 0 {
		cfg.Registry.WaveSize = 5
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 600
	}
	if cfg.RateLimit.WindowSecs == 0 {
		cfg.RateLimit.WindowSecs = 60
	}
	if cfg.Mesh.StaleAfter == 0 {
		cfg.Mesh.StaleAfter = 5 * time.Minute
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	for _, k := range cfg.Registry.Kinds {
		if !component.Kind(k).Valid() {
			return fmt.Errorf("registry.kinds: unknown kind %q", k)
		}
	}
	if *cfg.Registry.PerKind < 0 {
		return fmt.Errorf("registry.per_kind must not be negative")
	}
	if cfg.Registry.OpsPerComponent < 0 {
		return fmt.Errorf("registry.ops_per_component must not be negative")
	}
	if cfg.Registry.WaveSize < 1 {
		return fmt.Errorf("registry.wave_size must be at least 1")
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.Limit < 1 {
		return fmt.Errorf("rate_limit.limit must be at least 1 when enabled")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of debug/info/warn/error", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q not one of json/console", cfg.Logging.Format)
	}
	return nil
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}
