package config

import "time"

// NomadConfig is the scheduler API endpoint and credentials
type NomadConfig struct {
	Address string        `mapstructure:"address"`
	Token   string        `mapstructure:"token"` // Sent as X-Nomad-Token when set
	Timeout time.Duration `mapstructure:"timeout"`
}

type BackupConfig struct {
	KeepLocal bool `mapstructure:"keep_local"`
}

// StorageConfig configures the S3 client used for s3:// locations
type StorageConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// TemporalConfig is only read by the worker and submit commands
type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	Queue     string `mapstructure:"queue"`
	APIKey    string `mapstructure:"api_key"`
	TLS       bool   `mapstructure:"tls"`
}

type HistoryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}
