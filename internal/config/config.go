// Package config provides configuration management using Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Storage   StorageConfig   `mapstructure:"storage"`
	History   HistoryConfig   `mapstructure:"history"`
	Inbox     InboxConfig     `mapstructure:"inbox"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"` // e.g., ["https://example.com", "*.sub.domain.tld"]
}

// Enabled returns true if CORS is configured with at least one allowed origin.
func (c *CORSConfig) Enabled() bool {
	return len(c.AllowedOrigins) > 0
}

// ElevationConfig holds elevation provider configuration.
type ElevationConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	BatchSize int           `mapstructure:"batch_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// PipelineConfig holds contour pipeline configuration.
type PipelineConfig struct {
	Spacing        float64 `mapstructure:"spacing"`
	MinSpacing     float64 `mapstructure:"min_spacing"`
	MaxSpacing     float64 `mapstructure:"max_spacing"`
	Levels         int     `mapstructure:"levels"`
	MinLevels      int     `mapstructure:"min_levels"`
	MaxLevels      int     `mapstructure:"max_levels"`
	SourceSRID     int     `mapstructure:"source_srid"`
	TargetSRID     int     `mapstructure:"target_srid"`
	SmoothingSigma float64 `mapstructure:"smoothing_sigma"`
	CacheLimit     int     `mapstructure:"cache_limit"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Type      string      `mapstructure:"type"` // s3, azure, local
	LocalPath string      `mapstructure:"local_path"`
	S3        S3Config    `mapstructure:"s3"`
	Azure     AzureConfig `mapstructure:"azure"`
}

// S3Config holds AWS S3 configuration.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// AzureConfig holds Azure Blob Storage configuration.
type AzureConfig struct {
	Container        string `mapstructure:"container"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	ConnectionString string `mapstructure:"connection_string"`
	Prefix           string `mapstructure:"prefix"`
}

// HistoryConfig holds run history configuration.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

// InboxConfig holds filesystem inbox configuration.
type InboxConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Outbox  string `mapstructure:"outbox"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

// Defaults sets the default configuration values.
func Defaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.cors.allowed_origins", []string{})

	// Elevation defaults
	viper.SetDefault("elevation.base_url", "https://maps.googleapis.com/maps/api/elevation/json")
	viper.SetDefault("elevation.batch_size", 100)
	viper.SetDefault("elevation.timeout", 30*time.Second)

	// Pipeline defaults
	viper.SetDefault("pipeline.spacing", 0.0005)
	viper.SetDefault("pipeline.min_spacing", 0.0002)
	viper.SetDefault("pipeline.max_spacing", 0.001)
	viper.SetDefault("pipeline.levels", 10)
	viper.SetDefault("pipeline.min_levels", 5)
	viper.SetDefault("pipeline.max_levels", 20)
	viper.SetDefault("pipeline.source_srid", 4326)
	viper.SetDefault("pipeline.target_srid", 32648)
	viper.SetDefault("pipeline.smoothing_sigma", 1.0)
	viper.SetDefault("pipeline.cache_limit", 32)

	// Storage defaults
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "./data")

	// History defaults
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "./data/altus.db")
	viper.SetDefault("history.limit", 50)

	// Inbox defaults
	viper.SetDefault("inbox.enabled", false)
	viper.SetDefault("inbox.path", "./inbox")
	viper.SetDefault("inbox.outbox", "./outbox")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// Load loads configuration from environment and config file.
func Load(configPath string) (*Config, error) {
	Defaults()

	// Environment variable binding
	viper.SetEnvPrefix("ALTUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/altus")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Elevation.BaseURL == "" {
		return fmt.Errorf("elevation base URL is required")
	}
	if c.Elevation.BatchSize < 1 {
		return fmt.Errorf("elevation batch size must be positive")
	}

	if c.Pipeline.MinSpacing <= 0 || c.Pipeline.MaxSpacing < c.Pipeline.MinSpacing {
		return fmt.Errorf("invalid pipeline spacing bounds: [%g, %g]",
			c.Pipeline.MinSpacing, c.Pipeline.MaxSpacing)
	}
	if c.Pipeline.Spacing < c.Pipeline.MinSpacing || c.Pipeline.Spacing > c.Pipeline.MaxSpacing {
		return fmt.Errorf("default spacing %g outside bounds [%g, %g]",
			c.Pipeline.Spacing, c.Pipeline.MinSpacing, c.Pipeline.MaxSpacing)
	}
	if c.Pipeline.MinLevels < 1 || c.Pipeline.MaxLevels < c.Pipeline.MinLevels {
		return fmt.Errorf("invalid pipeline level bounds: [%d, %d]",
			c.Pipeline.MinLevels, c.Pipeline.MaxLevels)
	}
	if c.Pipeline.Levels < c.Pipeline.MinLevels || c.Pipeline.Levels > c.Pipeline.MaxLevels {
		return fmt.Errorf("default level count %d outside bounds [%d, %d]",
			c.Pipeline.Levels, c.Pipeline.MinLevels, c.Pipeline.MaxLevels)
	}
	if c.Pipeline.SourceSRID != 4326 {
		return fmt.Errorf("unsupported source SRID: %d", c.Pipeline.SourceSRID)
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region is required")
		}
	case "azure":
		if c.Storage.Azure.Container == "" {
			return fmt.Errorf("azure container is required")
		}
		if c.Storage.Azure.AccountName == "" && c.Storage.Azure.ConnectionString == "" {
			return fmt.Errorf("azure account name or connection string is required")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}

	if c.Inbox.Enabled {
		if c.Inbox.Path == "" {
			return fmt.Errorf("inbox path is required when inbox is enabled")
		}
		if c.Inbox.Outbox == "" {
			return fmt.Errorf("outbox path is required when inbox is enabled")
		}
	}

	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
