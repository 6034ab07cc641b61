package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the configuration shared by the CLI and the worker
type Config struct {
	Nomad       NomadConfig    `mapstructure:"nomad"`
	TempDir     string         `mapstructure:"temp_dir"` // Where backup artifacts are staged before upload/after download
	Concurrency int            `mapstructure:"concurrency"`
	Backup      BackupConfig   `mapstructure:"backup"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Log         LogConfig      `mapstructure:"log"`
	Temporal    TemporalConfig `mapstructure:"temporal"`
	History     HistoryConfig  `mapstructure:"history"`
}

// NewConfig loads configuration from file and environment variables
// configPath: path to the config file (e.g., "config.yaml"). If empty, looks for "config.yaml" in current directory
func NewConfig(ctx context.Context, configPath string) (*Config, error) {
	config := new(Config)
	v := viper.New()

	v.SetDefault("nomad.address", "http://localhost:4646")
	v.SetDefault("nomad.token", "")
	v.SetDefault("nomad.timeout", 30*time.Second)

	v.SetDefault("temp_dir", ".")
	v.SetDefault("concurrency", 1)
	v.SetDefault("backup.keep_local", false)

	// Storage defaults; empty credentials fall back to the AWS default chain
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "stderr")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("temporal.host_port", "")
	v.SetDefault("temporal.namespace", "")
	v.SetDefault("temporal.queue", "nomadoctor")
	v.SetDefault("temporal.api_key", "")
	v.SetDefault("temporal.tls", false)

	v.SetDefault("history.dsn", "")

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set up Viper to read from environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The variables the nomad CLI itself understands
	if err := v.BindEnv("nomad.address", "NOMAD_ADDRESS", "NOMAD_ADDR"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("nomad.token", "NOMAD_TOKEN"); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks the settings every command depends on
func (c *Config) Validate() error {
	if c.Nomad.Address == "" {
		return errors.New("nomad.address is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.TempDir == "" {
		return errors.New("temp_dir is required")
	}
	return nil
}
