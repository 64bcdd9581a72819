package output

import (
	"context"

	"github.com/jobrunner/altus/internal/domain"
)

// ElevationProvider defines the secondary port for elevation lookups.
type ElevationProvider interface {
	// Elevations resolves the elevation of every grid point, in grid
	// order. Points whose elevation could not be determined are
	// reported as NaN; the slice length always equals len(points).
	Elevations(ctx context.Context, points []domain.GridPoint) ([]float64, error)
}
