package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	StorageInMemory = "in-memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Storage     string `env:"STORAGE" envDefault:"in-memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"posts.db"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Seed        bool   `env:"SEED" envDefault:"true"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the chosen backend has what it needs.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageInMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for postgres storage")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	return nil
}
