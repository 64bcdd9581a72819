// Package app provides application initialization and wiring.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobrunner/altus/internal/adapters/elevation"
	"github.com/jobrunner/altus/internal/adapters/history"
	httpAdapter "github.com/jobrunner/altus/internal/adapters/http"
	"github.com/jobrunner/altus/internal/adapters/metrics"
	"github.com/jobrunner/altus/internal/adapters/storage"
	"github.com/jobrunner/altus/internal/adapters/watcher"
	"github.com/jobrunner/altus/internal/application"
	"github.com/jobrunner/altus/internal/config"
	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/dxf"
	"github.com/jobrunner/altus/internal/geo"
	"github.com/jobrunner/altus/internal/geojson"
	"github.com/jobrunner/altus/internal/ports/output"
)

// App holds all application components.
type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	Storage        output.ObjectStorage
	History        output.RunStore
	Registry       *application.RunRegistry
	Generator      *application.GenerateService
	Uploader       *application.UploadService
	HistoryService *application.HistoryService
	HealthService  *application.HealthService
	HTTPServer     *httpAdapter.Server
	Inbox          *watcher.Inbox
	Metrics        *metrics.Collector
	MetricsServer  *metrics.Server
}

// New creates and initializes a new application.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize metrics
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.NewCollector("altus")
		app.MetricsServer = metrics.NewServer(
			cfg.Metrics.Port,
			cfg.Metrics.Path,
			logger,
		)
	}

	var metricsCollector output.MetricsCollector
	if app.Metrics != nil {
		metricsCollector = app.Metrics
	} else {
		metricsCollector = &output.NoOpMetrics{}
	}

	// Initialize storage adapter
	store, err := initStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	app.Storage = store

	// Initialize run history
	if cfg.History.Enabled {
		runStore, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("initializing run history: %w", err)
		}
		app.History = runStore
	}

	// Initialize the projector and drawing encoder
	projector, err := geo.NewProjector(cfg.Pipeline.SourceSRID, cfg.Pipeline.TargetSRID)
	if err != nil {
		return nil, fmt.Errorf("initializing projector: %w", err)
	}
	encoder := dxf.NewEncoder(projector)

	// Initialize elevation provider
	provider := elevation.NewGoogleClient(
		elevation.Config{
			BaseURL:   cfg.Elevation.BaseURL,
			APIKey:    cfg.Elevation.APIKey,
			BatchSize: cfg.Elevation.BatchSize,
			Timeout:   cfg.Elevation.Timeout,
		},
		logger,
		metricsCollector,
	)

	// Initialize run registry
	app.Registry = application.NewRunRegistry(cfg.Pipeline.CacheLimit)

	// Initialize generation service
	app.Generator = application.NewGenerateService(
		provider,
		encoder,
		app.Registry,
		app.History,
		metricsCollector,
		logger,
		application.PipelineConfig{
			DefaultSpacing: cfg.Pipeline.Spacing,
			MinSpacing:     cfg.Pipeline.MinSpacing,
			MaxSpacing:     cfg.Pipeline.MaxSpacing,
			DefaultLevels:  cfg.Pipeline.Levels,
			MinLevels:      cfg.Pipeline.MinLevels,
			MaxLevels:      cfg.Pipeline.MaxLevels,
			SmoothingSigma: cfg.Pipeline.SmoothingSigma,
		},
	)

	// Initialize upload and history services
	app.Uploader = application.NewUploadService(
		app.Storage,
		app.Registry,
		app.History,
		metricsCollector,
		logger,
	)
	app.HistoryService = application.NewHistoryService(app.History, cfg.History.Limit, logger)

	// Initialize health service
	app.HealthService = application.NewHealthService(app.Registry)

	// Initialize HTTP server
	app.HTTPServer = httpAdapter.NewServer(
		cfg.Server,
		app.Generator,
		app.Uploader,
		app.HistoryService,
		app.HealthService,
		logger,
	)

	// Initialize filesystem inbox
	if cfg.Inbox.Enabled {
		inbox, err := watcher.New(
			watcher.Config{
				Path:   cfg.Inbox.Path,
				Outbox: cfg.Inbox.Outbox,
			},
			app.handleInboxPayload,
			logger,
		)
		if err != nil {
			logger.Warn("failed to initialize inbox watcher", "error", err)
		} else {
			app.Inbox = inbox
		}
	}

	return app, nil
}

// Start starts all application components.
func (a *App) Start(ctx context.Context) error {
	// Start inbox watcher
	if a.Inbox != nil {
		if err := a.Inbox.Start(ctx); err != nil {
			a.Logger.Warn("failed to start inbox watcher", "error", err)
		}
	}

	// Start metrics server in background
	if a.MetricsServer != nil {
		go func() {
			if err := a.MetricsServer.Start(); err != nil && err.Error() != "http: Server closed" {
				a.Logger.Error("metrics server error", "error", err)
			}
		}()
	}

	return a.HTTPServer.Start()
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("shutting down application")

	// Stop inbox watcher
	if a.Inbox != nil {
		_ = a.Inbox.Stop()
	}

	// Shutdown metrics server
	if a.MetricsServer != nil {
		if err := a.MetricsServer.Shutdown(ctx); err != nil {
			a.Logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Shutdown HTTP server
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown error", "error", err)
	}

	// Close run history
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			a.Logger.Error("run history close error", "error", err)
		}
	}

	return nil
}

// handleInboxPayload runs one dropped GeoJSON payload through the
// pipeline and returns the encoded drawing.
func (a *App) handleInboxPayload(ctx context.Context, payload []byte) ([]byte, error) {
	polygon, err := geojson.DecodePolygon(payload)
	if err != nil {
		return nil, err
	}

	run, err := a.Generator.Generate(ctx, domain.GenerateRequest{
		Polygon: polygon,
		Source:  "inbox",
	})
	if err != nil {
		return nil, err
	}

	return a.Generator.Artifact(ctx, run.ID)
}

// initStorage initializes the appropriate storage adapter.
func initStorage(ctx context.Context, cfg config.StorageConfig) (output.ObjectStorage, error) {
	switch cfg.Type {
	case "local":
		return storage.NewLocalStorage(cfg.LocalPath), nil

	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})

	case "azure":
		return storage.NewAzureStorage(storage.AzureConfig{
			Container:        cfg.Azure.Container,
			AccountName:      cfg.Azure.AccountName,
			AccountKey:       cfg.Azure.AccountKey,
			ConnectionString: cfg.Azure.ConnectionString,
			Prefix:           cfg.Azure.Prefix,
		})

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
