// Package config loads service settings from defaults, an optional YAML file
// and REMINDER_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"sportreminder/internal/pkg/logger"
)

// EnvPrefix is stripped from environment variables; "__" separates nesting,
// e.g. REMINDER_STORE__PATH -> store.path.
const EnvPrefix = "REMINDER_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Snooze    SnoozeConfig    `koanf:"snooze"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver string `koanf:"driver"` // json | sqlite
	Path   string `koanf:"path"`
}

type SchedulerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type SnoozeConfig struct {
	DefaultMinutes int `koanf:"default_minutes"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Plain PORT is what most hosting platforms set.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"SERVER__PORT") == "" {
		k.Set("server.port", port)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	cfg.Log.Level = strings.ToUpper(cfg.Log.Level)

	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver: %s (supported: %s, %s)",
			c.Store.Driver, DriverJSON, DriverSQLite)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", c.Scheduler.Interval)
	}

	if c.Snooze.DefaultMinutes <= 0 {
		return fmt.Errorf("snooze default_minutes must be positive, got %d", c.Snooze.DefaultMinutes)
	}

	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}

	return nil
}
