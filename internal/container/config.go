// Package container provides dependency injection and lifecycle management
// for the customer ledger following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Ledger reconciliation settings
	Ledger LedgerConfig

	// Metrics configuration
	Metrics MetricsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// BusyTimeout is how long a writer waits on a locked database
	BusyTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration
}

// LedgerConfig holds reconciliation settings.
type LedgerConfig struct {
	// Locale is the BCP-47 tag used to order customer names
	Locale string

	// Identity selects the identity resolver: name or name_mobile
	Identity string
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled     bool
	Path        string
	ServiceName string
	Environment string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/ledger.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			BusyTimeout:  5 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Ledger: LedgerConfig{
			Locale:   reconcile.DefaultLocale.String(),
			Identity: "name",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "luxegem-ledger",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if _, err := c.ReconcileOptions(); err != nil {
		return err
	}
	return nil
}

// ReconcileOptions converts the ledger settings into merge options.
func (c *Config) ReconcileOptions() (reconcile.Options, error) {
	opts := reconcile.DefaultOptions()

	if c.Ledger.Locale != "" {
		tag, err := language.Parse(c.Ledger.Locale)
		if err != nil {
			return reconcile.Options{}, fmt.Errorf("ledger.locale %q: %w", c.Ledger.Locale, err)
		}
		opts.Locale = tag
	}

	resolver, ok := reconcile.ResolverByName(c.Ledger.Identity)
	if !ok {
		return reconcile.Options{}, fmt.Errorf("ledger.identity %q is not supported", c.Ledger.Identity)
	}
	opts.Identity = resolver

	return opts, nil
}
