// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A .env file in the
working directory is loaded first; variables already set in the environment
take precedence over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (HTTP client, Redis, stores) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Both the portal server and the lateralctl CLI load the same schema; fields a
program does not need simply keep their defaults.
*/
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the 360Lateral portal.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// REST backend
	BackendURL     string        `env:"BACKEND_URL,required"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Key-Value Store (Redis). Empty selects in-memory stores.
	RedisURL string `env:"REDIS_URL"`

	// Browser sessions
	SessionTTL     time.Duration `env:"SESSION_TTL"      envDefault:"24h"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionCookie  string        `env:"SESSION_COOKIE"   envDefault:"lateral_sid"`

	// Login throttling
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW"       envDefault:"15m"`

	// MapGIS lookups
	MapGISCacheTTL time.Duration `env:"MAPGIS_CACHE_TTL" envDefault:"1h"`

	// SessionFile is where lateralctl keeps its session.
	SessionFile string `env:"SESSION_FILE"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Optional .env file for local runs; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field constraints the tags cannot express.
func (c *Config) validate() error {
	parsed, err := url.Parse(c.BackendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid BACKEND_URL %q", c.BackendURL)
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}
	if c.LoginMaxAttempts < 1 {
		return fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be at least 1")
	}
	if c.LoginWindow <= 0 {
		return fmt.Errorf("config: LOGIN_WINDOW must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins configured for production.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}

// SessionFilePath resolves the CLI session file, defaulting to the user config dir.
func (c *Config) SessionFilePath() (string, error) {
	if c.SessionFile != "" {
		return c.SessionFile, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "lateral", "session.json"), nil
}

// LoginAttemptsFilePath is where lateralctl counts failed logins, next to the
// session file.
func (c *Config) LoginAttemptsFilePath() (string, error) {
	sessionPath, err := c.SessionFilePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(sessionPath), "login_attempts.json"), nil
}
