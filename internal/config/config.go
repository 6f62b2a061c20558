package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Planner holds all configuration for the aoeplan runner.
type Planner struct {
	LogLevel string `yaml:"log_level"`

	// Base RNG seed; query i runs with Seed+i
	Seed uint64 `yaml:"seed"`

	// Concurrent queries per scenario
	Workers int `yaml:"workers"`

	// Scenario files to run when none are given on the command line
	Scenarios []string `yaml:"scenarios"`

	Database DatabaseConfig `yaml:"database"`
	Catalog  Catalog        `yaml:"catalog"`
}

// Catalog controls the technique catalog kept in PostgreSQL.
type Catalog struct {
	// Enabled loads catalog techniques into every scenario.
	Enabled bool `yaml:"enabled"`
	// Sync upserts the techniques defined by scenarios.
	Sync bool `yaml:"sync"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultPlanner returns Planner config with sensible defaults.
// The catalog is off, so no database is needed out of the box.
func DefaultPlanner() Planner {
	return Planner{
		LogLevel: "info",
		Seed:     1,
		Workers:  4,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "gridai",
			Password: "gridai",
			DBName:   "gridai",
			SSLMode:  "disable",
		},
	}
}

// LoadPlanner loads planner config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadPlanner(path string) (Planner, error) {
	cfg := DefaultPlanner()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg, nil
}
