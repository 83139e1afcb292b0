// Package config loads per-service configuration for the fleet.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level configuration every service binary loads.
type Config struct {
	App      AppConfig      `koanf:"app"`
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	PassHash PassHashConfig `koanf:"passhash"`
	Registry RegistryConfig `koanf:"registry"`
	IDGen    IDGenConfig    `koanf:"idgen"`
	Peers    PeersConfig    `koanf:"peers"`
}

// AppConfig carries process identity used for logging, registration, and
// environment gating (dev-only features like gRPC reflection).
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// HTTPConfig configures the dual-protocol (REST+gRPC) demultiplexed listener.
type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORS            CORSConfig    `koanf:"cors"`
}

type CORSConfig struct {
	Enabled        bool     `koanf:"enabled"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	AllowedMethods []string `koanf:"allowed_methods"`
	AllowedHeaders []string `koanf:"allowed_headers"`
}

type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error
	Format     string `koanf:"format"`
	Output     string `koanf:"output"` // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`
	Compress   bool   `koanf:"compress"`
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig carries a ready-made connection string rather than
// host/port parts: the environment contract (§6) is a literal DATABASE_URL.
// The order service additionally reads DATABASE_URL_LOCAL, which may equal
// DSN when the order and outbox tables live in the same database.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	LocalDSN        string        `koanf:"local_dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// JWTConfig configures the token primitive (C1).
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Expiry time.Duration `koanf:"expiry"`
	Issuer string        `koanf:"issuer"`
}

// PassHashConfig configures the identity engine's password hashing (C8).
type PassHashConfig struct {
	Cost    int `koanf:"cost"`
	Workers int `koanf:"workers"`
}

// RegistryConfig configures this process's own registration with the
// discovery agent (C2).
type RegistryConfig struct {
	AgentAddress          string        `koanf:"agent_address"`
	ServiceID             string        `koanf:"service_id"`
	ServiceName           string        `koanf:"service_name"`
	Address               string        `koanf:"address"`
	HealthPath            string        `koanf:"health_path"`
	CheckInterval         time.Duration `koanf:"check_interval"`
	DeregisterAfter       time.Duration `koanf:"deregister_after"`
	CallTimeout           time.Duration `koanf:"call_timeout"`
}

// IDGenConfig configures the Snowflake-style ID generator (C7).
type IDGenConfig struct {
	NodeID int64 `koanf:"node_id"`
}

// PeersConfig names the discovery-agent service id/name this process
// resolves for its downstream calls (the order service resolving the
// inventory service, principally).
type PeersConfig struct {
	InventoryServiceID string        `koanf:"inventory_service_id"`
	CallTimeout        time.Duration `koanf:"call_timeout"`
}

// Validate checks the minimal invariants every service needs at startup.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required (set DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		errs = append(errs, "jwt.secret is required (set JWT_SECRET)")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of debug/info/warn/error, got %s", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
