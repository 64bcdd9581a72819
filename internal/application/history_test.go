package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/jobrunner/altus/internal/domain"
)

func TestRecentRuns(t *testing.T) {
	store := &recordingStore{}
	for i := 0; i < 3; i++ {
		_ = store.Record(context.Background(), domain.Run{ID: fmt.Sprintf("run-%d", i)})
	}
	svc := NewHistoryService(store, 0, discardLogger())

	runs, err := svc.RecentRuns(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d; want 2", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("runs[0].ID = %q; want newest first", runs[0].ID)
	}
}

func TestRecentRuns_DefaultLimit(t *testing.T) {
	store := &recordingStore{}
	_ = store.Record(context.Background(), domain.Run{ID: "run-0"})
	svc := NewHistoryService(store, 0, discardLogger())

	// Non-positive limits fall back to the default.
	for _, limit := range []int{0, -5} {
		runs, err := svc.RecentRuns(context.Background(), limit)
		if err != nil {
			t.Fatalf("RecentRuns(%d): %v", limit, err)
		}
		if len(runs) != 1 {
			t.Errorf("RecentRuns(%d) = %d runs; want 1", limit, len(runs))
		}
	}
}

func TestRecentRuns_ConfiguredLimit(t *testing.T) {
	store := &recordingStore{}
	for i := 0; i < 5; i++ {
		_ = store.Record(context.Background(), domain.Run{ID: fmt.Sprintf("run-%d", i)})
	}
	svc := NewHistoryService(store, 3, discardLogger())

	// A request without a limit is capped by the configured one.
	runs, err := svc.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("runs = %d; want the configured limit of 3", len(runs))
	}

	// An explicit request limit still wins.
	runs, err = svc.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs = %d; want 1", len(runs))
	}
}

func TestRecentRuns_NoStore(t *testing.T) {
	svc := NewHistoryService(nil, 0, discardLogger())

	runs, err := svc.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if runs != nil {
		t.Errorf("runs = %v; want nil without a store", runs)
	}
}

func TestHealthService(t *testing.T) {
	registry := NewRunRegistry(4)
	registry.Put(&domain.Run{ID: "run-1"}, nil)
	registry.Put(&domain.Run{ID: "run-2"}, nil)

	svc := NewHealthService(registry)
	ctx := context.Background()

	if !svc.IsHealthy(ctx) {
		t.Error("IsHealthy = false; want true")
	}
	if !svc.IsReady(ctx) {
		t.Error("IsReady = false; want true")
	}

	details := svc.GetHealthDetails(ctx)
	if !details.Healthy || !details.Ready {
		t.Errorf("details = %+v; want healthy and ready", details)
	}
	if details.CachedRuns != 2 {
		t.Errorf("CachedRuns = %d; want 2", details.CachedRuns)
	}
	if details.Components["registry"] != "ok" {
		t.Errorf("registry component = %q; want ok", details.Components["registry"])
	}
}
