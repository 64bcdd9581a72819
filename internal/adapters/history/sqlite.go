// Package history persists run metadata in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jobrunner/altus/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	created_at      INTEGER NOT NULL,
	spacing         REAL NOT NULL,
	level_count     INTEGER NOT NULL,
	levels          TEXT NOT NULL,
	entity_count    INTEGER NOT NULL,
	grid_rows       INTEGER NOT NULL,
	grid_cols       INTEGER NOT NULL,
	size_bytes      INTEGER NOT NULL,
	missing_samples INTEGER NOT NULL,
	fallback        INTEGER NOT NULL,
	source          TEXT NOT NULL,
	uploaded_as     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// SQLiteStore implements RunStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the run history database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record persists the metadata of a finished run.
func (s *SQLiteStore) Record(ctx context.Context, run domain.Run) error {
	levels, err := json.Marshal(run.Levels)
	if err != nil {
		return fmt.Errorf("encoding levels: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, spacing, level_count, levels, entity_count,
			grid_rows, grid_cols, size_bytes, missing_samples, fallback,
			source, uploaded_as
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Unix(),
		run.Spacing,
		run.LevelCount,
		string(levels),
		run.EntityCount,
		run.GridRows,
		run.GridCols,
		run.SizeBytes,
		run.MissingSamples,
		boolToInt(run.Fallback),
		run.Source,
		run.UploadedAs,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, spacing, level_count, levels, entity_count,
		       grid_rows, grid_cols, size_bytes, missing_samples, fallback,
		       source, uploaded_as
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []domain.Run
	for rows.Next() {
		var (
			run       domain.Run
			createdAt int64
			levels    string
			fallback  int
		)
		if err := rows.Scan(
			&run.ID, &createdAt, &run.Spacing, &run.LevelCount, &levels,
			&run.EntityCount, &run.GridRows, &run.GridCols, &run.SizeBytes,
			&run.MissingSamples, &fallback, &run.Source, &run.UploadedAs,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		run.CreatedAt = time.Unix(createdAt, 0).UTC()
		run.Fallback = fallback != 0
		if err := json.Unmarshal([]byte(levels), &run.Levels); err != nil {
			return nil, fmt.Errorf("decoding levels for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkUploaded records the object key a run was uploaded as.
func (s *SQLiteStore) MarkUploaded(ctx context.Context, runID string, key string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET uploaded_as = ? WHERE id = ?`, key, runID)
	if err != nil {
		return fmt.Errorf("marking run %s uploaded: %w", runID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
