package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobrunner/altus/internal/domain"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history", "altus.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRun(id string, createdAt time.Time) domain.Run {
	return domain.Run{
		ID:             id,
		CreatedAt:      createdAt,
		Spacing:        0.0005,
		LevelCount:     10,
		Levels:         []float64{10, 20, 30},
		EntityCount:    7,
		GridRows:       12,
		GridCols:       9,
		SizeBytes:      2048,
		MissingSamples: 3,
		Fallback:       true,
		Source:         "api",
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := testRun(id, base.Add(time.Duration(i)*time.Minute))
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d; want 3", len(runs))
	}

	// Newest first.
	wantOrder := []string{"run-c", "run-b", "run-a"}
	for i, want := range wantOrder {
		if runs[i].ID != want {
			t.Errorf("runs[%d].ID = %q; want %q", i, runs[i].ID, want)
		}
	}

	got := runs[0]
	if !got.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v; want %v", got.CreatedAt, base.Add(2*time.Minute))
	}
	if got.Spacing != 0.0005 || got.LevelCount != 10 || got.EntityCount != 7 {
		t.Errorf("run fields = %+v; want recorded values", got)
	}
	if len(got.Levels) != 3 || got.Levels[1] != 20 {
		t.Errorf("Levels = %v; want [10 20 30]", got.Levels)
	}
	if !got.Fallback {
		t.Error("Fallback not preserved")
	}
	if got.MissingSamples != 3 || got.GridRows != 12 || got.GridCols != 9 {
		t.Errorf("grid fields = %+v; want recorded values", got)
	}
}

func TestRecent_Limit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := testRun(string(rune('a'+i)), base.Add(time.Duration(i)*time.Second))
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("runs = %d; want 2", len(runs))
	}
}

func TestRecent_Empty(t *testing.T) {
	store := testStore(t)

	runs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %d; want 0", len(runs))
	}
}

func TestMarkUploaded(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := testRun("run-a", time.Now().UTC())
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := store.MarkUploaded(ctx, "run-a", "contour_42.dxf"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}

	runs, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if runs[0].UploadedAs != "contour_42.dxf" {
		t.Errorf("UploadedAs = %q; want %q", runs[0].UploadedAs, "contour_42.dxf")
	}
}

func TestMarkUploaded_NotFound(t *testing.T) {
	store := testStore(t)

	err := store.MarkUploaded(context.Background(), "missing", "contour_1.dxf")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("error = %v; want ErrRunNotFound", err)
	}
}

func TestDuplicateRecordFails(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := testRun("run-a", time.Now().UTC())
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, run); err == nil {
		t.Error("recording the same run twice should fail on the primary key")
	}
}
