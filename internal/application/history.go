package application

import (
	"context"
	"log/slog"

	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/ports/output"
)

// DefaultHistoryLimit caps history queries when neither the caller nor
// the configuration supplies a limit.
const DefaultHistoryLimit = 50

// HistoryService answers run history queries from the persistent store.
type HistoryService struct {
	store  output.RunStore
	limit  int
	logger *slog.Logger
}

// NewHistoryService creates a new history service. The limit caps
// queries that do not carry their own; non-positive values fall back to
// DefaultHistoryLimit.
func NewHistoryService(store output.RunStore, limit int, logger *slog.Logger) *HistoryService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryService{
		store:  store,
		limit:  limit,
		logger: logger,
	}
}

// RecentRuns returns up to limit finished runs, newest first.
func (s *HistoryService) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = s.limit
	}
	if s.store == nil {
		return nil, nil
	}

	runs, err := s.store.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("history query failed", "error", err)
		return nil, err
	}
	return runs, nil
}
