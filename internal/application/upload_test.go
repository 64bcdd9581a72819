package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/ports/output"
)

// memoryStorage keeps uploaded objects in memory.
type memoryStorage struct {
	objects map[string][]byte
	err     error
}

func (s *memoryStorage) Upload(_ context.Context, key string, body io.Reader, _ int64) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memoryStorage) List(_ context.Context) ([]output.StorageObject, error) {
	objects := make([]output.StorageObject, 0, len(s.objects))
	for key, data := range s.objects {
		objects = append(objects, output.StorageObject{Key: key, Size: int64(len(data))})
	}
	return objects, nil
}

func TestUpload(t *testing.T) {
	registry := NewRunRegistry(4)
	registry.Put(&domain.Run{ID: "run-1"}, []byte("drawing"))

	storage := &memoryStorage{}
	store := &recordingStore{}
	svc := NewUploadService(storage, registry, store, nil, discardLogger())

	key, err := svc.Upload(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.HasPrefix(key, "contour_") || !strings.HasSuffix(key, ".dxf") {
		t.Errorf("key = %q; want contour_<n>.dxf", key)
	}
	if string(storage.objects[key]) != "drawing" {
		t.Errorf("stored object = %q; want %q", storage.objects[key], "drawing")
	}

	// The cached run and the history both carry the object key.
	run, err := registry.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.UploadedAs != key {
		t.Errorf("UploadedAs = %q; want %q", run.UploadedAs, key)
	}
	if store.marked["run-1"] != key {
		t.Errorf("history key = %q; want %q", store.marked["run-1"], key)
	}
}

func TestUpload_RunNotCached(t *testing.T) {
	svc := NewUploadService(&memoryStorage{}, NewRunRegistry(4), nil, nil, discardLogger())

	_, err := svc.Upload(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("error = %v; want ErrRunNotFound", err)
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	registry := NewRunRegistry(4)
	registry.Put(&domain.Run{ID: "run-1"}, []byte("drawing"))

	storage := &memoryStorage{err: fmt.Errorf("bucket gone")}
	svc := NewUploadService(storage, registry, nil, nil, discardLogger())

	if _, err := svc.Upload(context.Background(), "run-1"); err == nil {
		t.Fatal("Upload succeeded with failing storage")
	}

	// The run must not be marked uploaded.
	run, err := registry.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if run.UploadedAs != "" {
		t.Errorf("UploadedAs = %q; want empty after failed upload", run.UploadedAs)
	}
}

func TestUpload_WithoutHistory(t *testing.T) {
	registry := NewRunRegistry(4)
	registry.Put(&domain.Run{ID: "run-1"}, []byte("drawing"))

	svc := NewUploadService(&memoryStorage{}, registry, nil, nil, discardLogger())

	if _, err := svc.Upload(context.Background(), "run-1"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}
