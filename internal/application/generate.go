package application

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jobrunner/altus/internal/contour"
	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/ports/output"
	"github.com/jobrunner/altus/internal/raster"
)

// PipelineConfig holds the tunable pipeline parameters and the bounds
// requests are validated against.
type PipelineConfig struct {
	DefaultSpacing float64
	MinSpacing     float64
	MaxSpacing     float64
	DefaultLevels  int
	MinLevels      int
	MaxLevels      int
	SmoothingSigma float64
}

// GenerateService runs the contour pipeline: sample the polygon's
// bounding box, resolve elevations, assemble and smooth the surface,
// trace contours and export the drawing.
type GenerateService struct {
	provider output.ElevationProvider
	exporter output.ContourExporter
	registry *RunRegistry
	store    output.RunStore
	metrics  output.MetricsCollector
	logger   *slog.Logger
	cfg      PipelineConfig
}

// NewGenerateService creates a new generation service.
func NewGenerateService(
	provider output.ElevationProvider,
	exporter output.ContourExporter,
	registry *RunRegistry,
	store output.RunStore,
	metrics output.MetricsCollector,
	logger *slog.Logger,
	cfg PipelineConfig,
) *GenerateService {
	if metrics == nil {
		metrics = &output.NoOpMetrics{}
	}
	return &GenerateService{
		provider: provider,
		exporter: exporter,
		registry: registry,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate runs the full pipeline for one polygon and caches the
// resulting drawing. When the primary export path fails, the matrix is
// rebuilt through an independent code path and exported once more; a
// second failure is fatal and nothing is cached.
func (s *GenerateService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.Run, error) {
	start := time.Now()

	run, err := s.generate(ctx, req)

	s.metrics.IncGenerations(err == nil)
	s.metrics.ObserveGenerationDuration(time.Since(start))
	if err != nil {
		s.logger.Error("contour generation failed", "source", req.Source, "error", err)
		return nil, err
	}

	s.logger.Info("contour generation finished",
		"run_id", run.ID,
		"entities", run.EntityCount,
		"grid", run.GridRows*run.GridCols,
		"missing", run.MissingSamples,
		"fallback", run.Fallback,
		"duration", time.Since(start))
	return run, nil
}

func (s *GenerateService) generate(ctx context.Context, req domain.GenerateRequest) (*domain.Run, error) {
	spacing, levelCount, err := s.applyDefaults(req)
	if err != nil {
		return nil, err
	}

	grid, err := raster.Sample(req.Polygon, spacing)
	if err != nil {
		return nil, err
	}

	elevations, err := s.provider.Elevations(ctx, grid.Points)
	if err != nil {
		return nil, err
	}
	missing := countInvalid(elevations)
	if missing > 0 {
		s.logger.Warn("grid contains unresolved elevations", "missing", missing, "total", len(elevations))
	}

	levels, artifact, entities, fallback, err := s.export(grid, elevations, levelCount)
	if err != nil {
		return nil, err
	}
	if fallback {
		s.metrics.IncExportFallbacks()
	}

	run := &domain.Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Spacing:        spacing,
		LevelCount:     levelCount,
		Levels:         levelValues(levels),
		EntityCount:    entities,
		GridRows:       grid.Rows(),
		GridCols:       grid.Cols(),
		SizeBytes:      int64(len(artifact)),
		MissingSamples: missing,
		Fallback:       fallback,
		Source:         req.Source,
	}

	s.registry.Put(run, artifact)

	if s.store != nil {
		if err := s.store.Record(ctx, *run); err != nil {
			// History is best effort; the run itself succeeded.
			s.logger.Warn("failed to record run history", "run_id", run.ID, "error", err)
		}
	}

	return run, nil
}

// export builds, smooths, traces and encodes the surface. The primary
// path reshapes the grid; if anything past sampling fails, the matrix
// is rebuilt by linear placement and exported once more.
func (s *GenerateService) export(grid *raster.Grid, elevations []float64, levelCount int) ([]contour.Level, []byte, int, bool, error) {
	levels, artifact, entities, primaryErr := s.exportOnce(grid, elevations, levelCount, raster.BuildMatrix)
	if primaryErr == nil {
		return levels, artifact, entities, false, nil
	}

	// An unrepairable matrix will not improve on a second derivation.
	var matrixErr *domain.MatrixError
	if errors.As(primaryErr, &matrixErr) {
		return nil, nil, 0, false, primaryErr
	}

	s.logger.Warn("primary export failed, retrying through fallback path", "error", primaryErr)

	levels, artifact, entities, fallbackErr := s.exportOnce(grid, elevations, levelCount, raster.BuildMatrixLinear)
	if fallbackErr != nil {
		return nil, nil, 0, true, &domain.ExportError{Stage: "fallback", Fallback: true, Err: fallbackErr}
	}
	return levels, artifact, entities, true, nil
}

type matrixBuilder func([]domain.GridPoint, []float64) (*raster.Surface, error)

func (s *GenerateService) exportOnce(grid *raster.Grid, elevations []float64, levelCount int, build matrixBuilder) ([]contour.Level, []byte, int, error) {
	surface, err := build(grid.Points, elevations)
	if err != nil {
		return nil, nil, 0, err
	}

	smoothed := raster.Smooth(surface, s.cfg.SmoothingSigma)

	levels, err := contour.Extract(smoothed, levelCount)
	if err != nil {
		return nil, nil, 0, err
	}

	artifact, entities, err := s.exporter.Export(levels)
	if err != nil {
		return nil, nil, 0, err
	}
	return levels, artifact, entities, nil
}

// applyDefaults substitutes configured defaults for zero-valued request
// parameters and validates the result against the configured bounds.
func (s *GenerateService) applyDefaults(req domain.GenerateRequest) (float64, int, error) {
	spacing := req.Spacing
	if spacing == 0 {
		spacing = s.cfg.DefaultSpacing
	}
	if spacing < s.cfg.MinSpacing || spacing > s.cfg.MaxSpacing {
		return 0, 0, &domain.ValidationError{
			Field:      "spacing",
			Value:      spacing,
			Constraint: "within configured bounds",
			Message:    "grid spacing out of range",
		}
	}

	levels := req.Levels
	if levels == 0 {
		levels = s.cfg.DefaultLevels
	}
	if levels < s.cfg.MinLevels || levels > s.cfg.MaxLevels {
		return 0, 0, &domain.ValidationError{
			Field:      "levels",
			Value:      levels,
			Constraint: "within configured bounds",
			Message:    "contour level count out of range",
		}
	}

	return spacing, levels, nil
}

// GetRun returns the metadata of a cached run.
func (s *GenerateService) GetRun(_ context.Context, runID string) (*domain.Run, error) {
	return s.registry.Get(runID)
}

// Artifact returns the encoded drawing of a cached run.
func (s *GenerateService) Artifact(_ context.Context, runID string) ([]byte, error) {
	return s.registry.Artifact(runID)
}

func countInvalid(elevations []float64) int {
	invalid := 0
	for _, v := range elevations {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			invalid++
		}
	}
	return invalid
}

func levelValues(levels []contour.Level) []float64 {
	values := make([]float64, len(levels))
	for i, l := range levels {
		values[i] = l.Value
	}
	return values
}
