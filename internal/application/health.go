package application

import (
	"context"

	"github.com/jobrunner/altus/internal/ports/input"
)

// HealthService provides health check functionality.
type HealthService struct {
	registry *RunRegistry
}

// NewHealthService creates a new health service.
func NewHealthService(registry *RunRegistry) *HealthService {
	return &HealthService{
		registry: registry,
	}
}

// IsHealthy returns true if the service is healthy.
func (s *HealthService) IsHealthy(ctx context.Context) bool {
	return true // Basic health check
}

// IsReady returns true if the service is ready to accept requests.
// The pipeline is stateless, so readiness follows liveness.
func (s *HealthService) IsReady(ctx context.Context) bool {
	return s.IsHealthy(ctx)
}

// GetHealthDetails returns detailed health information.
func (s *HealthService) GetHealthDetails(ctx context.Context) input.HealthDetails {
	components := map[string]string{
		"registry": "ok",
	}

	return input.HealthDetails{
		Healthy:    s.IsHealthy(ctx),
		Ready:      s.IsReady(ctx),
		CachedRuns: s.registry.Count(),
		Components: components,
	}
}
