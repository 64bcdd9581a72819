package output

import (
	"context"

	"github.com/jobrunner/altus/internal/domain"
)

// RunStore defines the secondary port for persisting run history.
type RunStore interface {
	// Record persists the metadata of a finished run.
	Record(ctx context.Context, run domain.Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Run, error)

	// MarkUploaded records the object key a run was uploaded as.
	MarkUploaded(ctx context.Context, runID string, key string) error

	// Close releases the underlying store.
	Close() error
}
