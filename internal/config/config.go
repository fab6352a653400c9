// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

// Package config loads service configuration from defaults, an optional YAML
// file, environment variables, and command-line flags, in that order of
// increasing precedence.
package config

import (
	"net"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/logging"
)

// Default values applied before any file, env, or flag overrides.
const (
	DefaultServerAddr     = ":3000"
	DefaultMetricsAddr    = "127.0.0.1:9100"
	DefaultLogFormat      = "json"
	DefaultLogLevel       = "info"
	DefaultConnectTimeout = 10 * time.Second
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP API and observability listeners.
type ServerConfig struct {
	// Addr is the HTTP API listen address ("host:port" or ":port").
	Addr string `koanf:"addr"`
	// MetricsAddr is the metrics/health listen address. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	// URL is a postgres:// connection string.
	URL string `koanf:"url"`
	// ConnectTimeout bounds the initial connection attempt, retries included.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Format string `koanf:"format"` // "json" or "text"
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// non-empty), then the DATABASE_URL and PORT environment variables, then the
// given flag set (nil to skip). Flags registered with names like
// "server.addr" override everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			MetricsAddr: DefaultMetricsAddr,
		},
		Database: DatabaseConfig{
			ConnectTimeout: DefaultConnectTimeout,
		},
		Logging: LoggingConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	// Captured before flag loading: posflag also records unchanged flag
	// defaults, which would mask whether the file set an address.
	fileHasAddr := k.Exists("server.addr")

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	// Environment overrides kept for compatibility with the historical
	// deployment: DATABASE_URL wins over the file, PORT fills the listen
	// address when no explicit server.addr was configured. Explicit flags
	// still take precedence over both.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		if flags == nil || !flags.Changed("database.url") {
			cfg.Database.URL = url
		}
	}
	if port := os.Getenv("PORT"); port != "" && !fileHasAddr {
		if flags == nil || !flags.Changed("server.addr") {
			cfg.Server.Addr = net.JoinHostPort("", port)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
// Database.URL presence is checked separately by commands that need it, so
// that migrate and serve can share a config file without a DSN.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Logging.Format).
			Errorf("logging.format must be 'json' or 'text'")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if c.Database.ConnectTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("database.connect_timeout must be positive")
	}
	return nil
}

// RequireDatabaseURL returns an error when no database URL is configured.
func (c *Config) RequireDatabaseURL() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url (or the DATABASE_URL environment variable) is required")
	}
	return nil
}
