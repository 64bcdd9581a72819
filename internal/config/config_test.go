package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Elevation: ElevationConfig{
			BaseURL:   "https://maps.googleapis.com/maps/api/elevation/json",
			BatchSize: 100,
			Timeout:   30 * time.Second,
		},
		Pipeline: PipelineConfig{
			Spacing:        0.0005,
			MinSpacing:     0.0002,
			MaxSpacing:     0.001,
			Levels:         10,
			MinLevels:      5,
			MaxLevels:      20,
			SourceSRID:     4326,
			TargetSRID:     32648,
			SmoothingSigma: 1.0,
			CacheLimit:     32,
		},
		Storage: StorageConfig{
			Type:      "local",
			LocalPath: "./data",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "./data/altus.db",
			Limit:   50,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{name: "port too low", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "missing elevation URL", mutate: func(c *Config) { c.Elevation.BaseURL = "" }, wantErr: true},
		{name: "zero batch size", mutate: func(c *Config) { c.Elevation.BatchSize = 0 }, wantErr: true},
		{name: "negative min spacing", mutate: func(c *Config) { c.Pipeline.MinSpacing = -1 }, wantErr: true},
		{name: "inverted spacing bounds", mutate: func(c *Config) { c.Pipeline.MaxSpacing = 0.0001 }, wantErr: true},
		{name: "default spacing below minimum", mutate: func(c *Config) { c.Pipeline.Spacing = 0.0001 }, wantErr: true},
		{name: "default spacing above maximum", mutate: func(c *Config) { c.Pipeline.Spacing = 0.5 }, wantErr: true},
		{name: "zero min levels", mutate: func(c *Config) { c.Pipeline.MinLevels = 0 }, wantErr: true},
		{name: "inverted level bounds", mutate: func(c *Config) { c.Pipeline.MaxLevels = 2 }, wantErr: true},
		{name: "default levels out of bounds", mutate: func(c *Config) { c.Pipeline.Levels = 100 }, wantErr: true},
		{name: "unsupported source SRID", mutate: func(c *Config) { c.Pipeline.SourceSRID = 3857 }, wantErr: true},
		{name: "local storage without path", mutate: func(c *Config) { c.Storage.LocalPath = "" }, wantErr: true},
		{name: "unknown storage type", mutate: func(c *Config) { c.Storage.Type = "ftp" }, wantErr: true},
		{
			name: "s3 without bucket",
			mutate: func(c *Config) {
				c.Storage.Type = "s3"
				c.Storage.S3.Region = "us-east-1"
			},
			wantErr: true,
		},
		{
			name: "s3 without region",
			mutate: func(c *Config) {
				c.Storage.Type = "s3"
				c.Storage.S3.Bucket = "drawings"
			},
			wantErr: true,
		},
		{
			name: "s3 complete",
			mutate: func(c *Config) {
				c.Storage.Type = "s3"
				c.Storage.S3.Bucket = "drawings"
				c.Storage.S3.Region = "us-east-1"
			},
		},
		{
			name: "azure without container",
			mutate: func(c *Config) {
				c.Storage.Type = "azure"
				c.Storage.Azure.AccountName = "acct"
			},
			wantErr: true,
		},
		{
			name: "azure without credentials",
			mutate: func(c *Config) {
				c.Storage.Type = "azure"
				c.Storage.Azure.Container = "drawings"
			},
			wantErr: true,
		},
		{
			name: "azure with connection string",
			mutate: func(c *Config) {
				c.Storage.Type = "azure"
				c.Storage.Azure.Container = "drawings"
				c.Storage.Azure.ConnectionString = "UseDevelopmentStorage=true"
			},
		},
		{
			name: "history enabled without path",
			mutate: func(c *Config) {
				c.History.Path = ""
			},
			wantErr: true,
		},
		{
			name: "history disabled without path",
			mutate: func(c *Config) {
				c.History.Enabled = false
				c.History.Path = ""
			},
		},
		{
			name: "inbox enabled without path",
			mutate: func(c *Config) {
				c.Inbox.Enabled = true
				c.Inbox.Outbox = "./outbox"
			},
			wantErr: true,
		},
		{
			name: "inbox enabled without outbox",
			mutate: func(c *Config) {
				c.Inbox.Enabled = true
				c.Inbox.Path = "./inbox"
			},
			wantErr: true,
		},
		{
			name: "inbox complete",
			mutate: func(c *Config) {
				c.Inbox.Enabled = true
				c.Inbox.Path = "./inbox"
				c.Inbox.Outbox = "./outbox"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate succeeded; want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d; want 8080", cfg.Server.Port)
	}
	if cfg.Pipeline.TargetSRID != 32648 {
		t.Errorf("Pipeline.TargetSRID = %d; want 32648", cfg.Pipeline.TargetSRID)
	}
	if cfg.Elevation.BatchSize != 100 {
		t.Errorf("Elevation.BatchSize = %d; want 100", cfg.Elevation.BatchSize)
	}
	if cfg.Storage.Type != "local" {
		t.Errorf("Storage.Type = %q; want local", cfg.Storage.Type)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false; want true")
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d; want 9090", cfg.Metrics.Port)
	}
	if cfg.Inbox.Enabled {
		t.Error("Inbox.Enabled = true; want false by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
pipeline:
  target_srid: 32748
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d; want 9999", cfg.Server.Port)
	}
	if cfg.Pipeline.TargetSRID != 32748 {
		t.Errorf("Pipeline.TargetSRID = %d; want 32748", cfg.Pipeline.TargetSRID)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v; want debug/text", cfg.Logging)
	}

	// File values only override what they name.
	if cfg.Elevation.BatchSize != 100 {
		t.Errorf("Elevation.BatchSize = %d; want default 100", cfg.Elevation.BatchSize)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("ALTUS_SERVER_PORT", "7777")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d; want 7777 from environment", cfg.Server.Port)
	}
}

func TestAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := cfg.Address(); got != "127.0.0.1:8080" {
		t.Errorf("Address = %q; want %q", got, "127.0.0.1:8080")
	}
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: -1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted an invalid port")
	}
}
