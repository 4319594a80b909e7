// Package config loads process configuration from IMMENSE_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/immense/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds settings shared by every command.
type Config struct {
	LogLevel   string `env:"IMMENSE_LOG_LEVEL"   envDefault:"info"`
	Addr       string `env:"IMMENSE_ADDR"        envDefault:":8080"`
	Store      string `env:"IMMENSE_STORE"       envDefault:"memory"`
	SQLitePath string `env:"IMMENSE_SQLITE_PATH" envDefault:"immense.db"`
	Redis      Redis
	Telemetry  Telemetry
}

// Redis configures the redis scene store.
type Redis struct {
	Addr     string        `env:"IMMENSE_REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string        `env:"IMMENSE_REDIS_PASSWORD"`
	DB       int           `env:"IMMENSE_REDIS_DB"`
	TTL      time.Duration `env:"IMMENSE_REDIS_TTL"`
}

// Telemetry configures trace export. Tracing stays off without an endpoint.
type Telemetry struct {
	Endpoint string `env:"IMMENSE_OTEL_ENDPOINT"`
	Enabled  bool   `env:"IMMENSE_OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports unknown store backends and log levels.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown store %q (want memory, redis or sqlite)", c.Store)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config: negative redis ttl %s", c.Redis.TTL)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}
