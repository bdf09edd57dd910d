// Package config reads process-level settings from TALLY_* environment variables.
// Persisted user settings live in the store, not here.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/julianstephens/tally/internal/utils"
)

// Prefix is prepended to every variable name.
const Prefix = "TALLY"

// Config is the environment layer between CLI flags and persisted settings.
type Config struct {
	// DBConnection is a SQLite path or PostgreSQL connection string.
	DBConnection string `envconfig:"DB_CONNECTION"`
	// Remote is the sync target: a PostgreSQL connection string, a .db file or a .json file.
	Remote      string        `envconfig:"REMOTE"`
	SyncTimeout time.Duration `envconfig:"SYNC_TIMEOUT" default:"15s"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`
	// Timezone overrides the stored timezone for this process.
	Timezone string `envconfig:"TIMEZONE"`
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("TALLY_SYNC_TIMEOUT must be > 0, got %s", c.SyncTimeout)
	}
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("TALLY_TIMEZONE: unknown timezone %q", c.Timezone)
	}
	return nil
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
