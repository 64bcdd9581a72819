// Package input defines the primary/driving ports of the application.
package input

import (
	"context"

	"github.com/jobrunner/altus/internal/domain"
)

// ContourService defines the primary port for contour generation.
type ContourService interface {
	// Generate runs the full pipeline for one polygon and returns the
	// metadata of the finished run.
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.Run, error)

	// GetRun returns the metadata of a cached run.
	GetRun(ctx context.Context, runID string) (*domain.Run, error)

	// Artifact returns the encoded drawing of a cached run.
	Artifact(ctx context.Context, runID string) ([]byte, error)
}

// UploadService defines the primary port for publishing drawings.
type UploadService interface {
	// Upload pushes a cached run's drawing to object storage and
	// returns the object key it was stored under.
	Upload(ctx context.Context, runID string) (string, error)
}

// RunHistory defines the primary port for run history queries.
type RunHistory interface {
	// RecentRuns returns up to limit finished runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// HealthChecker defines the primary port for health checks.
type HealthChecker interface {
	// IsHealthy returns true if the service is healthy.
	IsHealthy(ctx context.Context) bool

	// IsReady returns true if the service is ready to accept requests.
	IsReady(ctx context.Context) bool

	// GetHealthDetails returns detailed health information.
	GetHealthDetails(ctx context.Context) HealthDetails
}

// HealthDetails contains detailed health information.
type HealthDetails struct {
	Healthy    bool              // Overall health status
	Ready      bool              // Ready to accept requests
	CachedRuns int               // Number of runs held in memory
	Components map[string]string // Component statuses
}
