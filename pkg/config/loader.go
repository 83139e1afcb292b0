package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "ECOMFLEET_"
	configEnvVar = "CONFIG_PATH"
)

// Loader loads configuration from defaults, an optional YAML file, and the
// environment, in that order of increasing priority.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
	serviceName string
	defaults    map[string]any
}

// NewLoader creates a loader pre-seeded with this service's name and any
// service-specific default overrides (default HTTP port, registry service
// name, etc).
func NewLoader(serviceName string, overrides map[string]any, opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/ecomfleet/config.yaml",
		},
		envPrefix:   envPrefix,
		serviceName: serviceName,
		defaults:    overrides,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type LoaderOption func(*Loader)

func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// Load loads configuration with precedence: defaults -> config file -> env.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	if err := l.loadSpecEnv(); err != nil {
		return nil, fmt.Errorf("failed to load spec-mandated env vars: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"app.name":        l.serviceName,
		"app.version":     "0.1.0",
		"app.environment": "development",
		"app.debug":       false,

		"http.port":                   8080,
		"http.read_timeout":           30 * time.Second,
		"http.write_timeout":          30 * time.Second,
		"http.shutdown_timeout":       10 * time.Second,
		"http.cors.enabled":           true,
		"http.cors.allowed_origins":   []string{"*"},
		"http.cors.allowed_methods":   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		"http.cors.allowed_headers":   []string{"*"},

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		"metrics.enabled":   true,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "ecomfleet",
		"metrics.subsystem": l.serviceName,

		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": l.serviceName,
		"tracing.sample_rate":  0.1,

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.auto_migrate":       true,

		"jwt.expiry": 24 * time.Hour,
		"jwt.issuer": "ecomfleet",

		"passhash.cost":    10,
		"passhash.workers": 0, // 0 means runtime.GOMAXPROCS(0)

		"registry.agent_address":    "http://localhost:8500",
		"registry.service_name":    l.serviceName,
		"registry.health_path":     "/health_check",
		"registry.check_interval":  20 * time.Second,
		"registry.deregister_after": 30 * time.Minute,
		"registry.call_timeout":    time.Second,

		"idgen.node_id": 0,

		"peers.inventory_service_id": "inventory-svc",
		"peers.call_timeout":         5 * time.Second,
	}

	for k, v := range l.defaults {
		defaults[k] = v
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv loads ECOMFLEET_-prefixed environment variables, e.g.
// ECOMFLEET_HTTP_PORT -> http.port.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, l.envPrefix)),
			"_", ".",
		)
	}), nil)
}

// loadSpecEnv binds the two literal environment variable names the
// specification mandates regardless of the ECOMFLEET_ convention:
// DATABASE_URL, DATABASE_URL_LOCAL, and JWT_SECRET.
func (l *Loader) loadSpecEnv() error {
	mapping := map[string]string{
		"DATABASE_URL":       "database.dsn",
		"DATABASE_URL_LOCAL": "database.local_dsn",
		"JWT_SECRET":         "jwt.secret",
	}

	values := make(map[string]any)
	for envVar, key := range mapping {
		if v := os.Getenv(envVar); v != "" {
			values[key] = v
		}
	}
	if _, ok := values["database.local_dsn"]; !ok {
		if dsn, ok := values["database.dsn"]; ok {
			values["database.local_dsn"] = dsn
		}
	}
	if len(values) == 0 {
		return nil
	}
	return l.k.Load(confmap.Provider(values, "."), nil)
}

// MustLoad loads configuration for serviceName or panics.
func MustLoad(serviceName string, defaultHTTPPort int) *Config {
	cfg, err := Load(serviceName, defaultHTTPPort)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load loads configuration for a named service with its default HTTP port.
func Load(serviceName string, defaultHTTPPort int) (*Config, error) {
	overrides := map[string]any{
		"http.port": defaultHTTPPort,
	}
	return NewLoader(serviceName, overrides).Load()
}
