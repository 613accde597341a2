// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/navstruct/navcms/internal/store"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver   string `env:"NAVCMS_DB_DRIVER" envDefault:"sqlite"`
	DBDSN      string `env:"NAVCMS_DB_DSN" envDefault:"./data/navcms.db"`
	ServerHost string `env:"NAVCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"NAVCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"NAVCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"NAVCMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"NAVCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"NAVCMS_CACHE_PREFIX" envDefault:"navcms:"` // Redis key prefix
	CacheTTL     int    `env:"NAVCMS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"NAVCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Request handling
	RequestTimeout int `env:"NAVCMS_REQUEST_TIMEOUT" envDefault:"120"` // Per-request timeout in seconds

	// Content policies
	RequireMenuSlug bool `env:"NAVCMS_REQUIRE_MENU_SLUG" envDefault:"false"` // Page slugs must match a menu item
	UniqueTitles    bool `env:"NAVCMS_UNIQUE_TITLES" envDefault:"true"`      // Active menu titles unique per locale

	// Seeding configuration
	DoSeed bool `env:"NAVCMS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.DBDriver {
	case store.DriverSQLite, store.DriverMySQL:
	default:
		return nil, fmt.Errorf("NAVCMS_DB_DRIVER must be %q or %q, got %q",
			store.DriverSQLite, store.DriverMySQL, cfg.DBDriver)
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("NAVCMS_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	if cfg.RequestTimeout < 1 {
		return nil, fmt.Errorf("NAVCMS_REQUEST_TIMEOUT must be positive, got %d", cfg.RequestTimeout)
	}

	return cfg, nil
}
