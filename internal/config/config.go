package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig
	Logger  LoggerConfig
	S3      S3Config
	Metrics MetricsConfig
}

// StorageConfig holds inventory data file configuration.
type StorageConfig struct {
	DataFile string `env:"INVENTORY_DATA_FILE" envDefault:"inventory_data.json"`
	// StrictLoad turns a corrupt data file into a startup error instead of an empty inventory.
	StrictLoad bool `env:"INVENTORY_STRICT_LOAD" envDefault:"false"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // "json" or "console"
}

// S3Config holds AWS S3 configuration for mirroring backups.
type S3Config struct {
	Enabled bool   `env:"S3_BACKUP_ENABLED" envDefault:"false"`
	Bucket  string `env:"S3_BUCKET"`
	Region  string `env:"S3_REGION" envDefault:"us-east-1"`
	Prefix  string `env:"S3_PREFIX" envDefault:"backups/"` // Key prefix within bucket
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// Textfile is where Prometheus metrics are written; empty disables writing.
	Textfile string `env:"METRICS_TEXTFILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Storage.DataFile == "" {
		return fmt.Errorf("inventory data file is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 backup is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 backup is enabled")
		}
	}

	return nil
}
