package application

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jobrunner/altus/internal/ports/output"
)

// UploadService publishes cached drawings to object storage.
type UploadService struct {
	storage  output.ObjectStorage
	registry *RunRegistry
	store    output.RunStore
	metrics  output.MetricsCollector
	logger   *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(
	storage output.ObjectStorage,
	registry *RunRegistry,
	store output.RunStore,
	metrics output.MetricsCollector,
	logger *slog.Logger,
) *UploadService {
	if metrics == nil {
		metrics = &output.NoOpMetrics{}
	}
	return &UploadService{
		storage:  storage,
		registry: registry,
		store:    store,
		metrics:  metrics,
		logger:   logger,
	}
}

// Upload pushes a cached run's drawing to object storage under a
// randomized contour_<n>.dxf key and returns the key.
func (s *UploadService) Upload(ctx context.Context, runID string) (string, error) {
	artifact, err := s.registry.Artifact(runID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("contour_%d.dxf", rand.Intn(1000))

	start := time.Now()
	err = s.storage.Upload(ctx, key, bytes.NewReader(artifact), int64(len(artifact)))
	s.metrics.IncUploads(err == nil)
	s.metrics.ObserveUploadDuration(time.Since(start))
	if err != nil {
		s.logger.Error("upload failed", "run_id", runID, "key", key, "error", err)
		return "", err
	}

	if err := s.registry.SetUploaded(runID, key); err != nil {
		// The run was evicted mid-upload; the object still exists.
		s.logger.Warn("uploaded run no longer cached", "run_id", runID, "key", key)
	}
	if s.store != nil {
		if err := s.store.MarkUploaded(ctx, runID, key); err != nil {
			s.logger.Warn("failed to mark run uploaded in history", "run_id", runID, "error", err)
		}
	}

	s.logger.Info("drawing uploaded", "run_id", runID, "key", key, "size", len(artifact))
	return key, nil
}
