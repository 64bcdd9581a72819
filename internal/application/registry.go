// Package application contains the application services.
package application

import (
	"sync"

	"github.com/jobrunner/altus/internal/domain"
)

// DefaultRegistryLimit caps the number of cached runs when none is
// configured.
const DefaultRegistryLimit = 32

// RunRegistry caches finished runs and their encoded drawings in
// memory. When the cache is full the oldest run is evicted together
// with its artifact.
type RunRegistry struct {
	mu      sync.RWMutex
	entries map[string]*runEntry
	order   []string // Insertion order, oldest first
	limit   int
}

type runEntry struct {
	Run      *domain.Run
	Artifact []byte
}

// NewRunRegistry creates a registry holding at most limit runs.
func NewRunRegistry(limit int) *RunRegistry {
	if limit <= 0 {
		limit = DefaultRegistryLimit
	}
	return &RunRegistry{
		entries: make(map[string]*runEntry),
		limit:   limit,
	}
}

// Put caches a finished run and its drawing, evicting the oldest
// entry when the registry is full.
func (r *RunRegistry) Put(run *domain.Run, artifact []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[run.ID]; !ok {
		r.order = append(r.order, run.ID)
	}
	r.entries[run.ID] = &runEntry{Run: run, Artifact: artifact}

	for len(r.order) > r.limit {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.entries, oldest)
	}
}

// Get returns the metadata of a cached run.
func (r *RunRegistry) Get(runID string) (*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}

	// Copy so callers cannot mutate the cached entry.
	run := *entry.Run
	return &run, nil
}

// Artifact returns the encoded drawing of a cached run.
func (r *RunRegistry) Artifact(runID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return entry.Artifact, nil
}

// SetUploaded records the object key a cached run was uploaded as.
func (r *RunRegistry) SetUploaded(runID string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[runID]
	if !ok {
		return domain.ErrRunNotFound
	}
	entry.Run.UploadedAs = key
	return nil
}

// Remove drops a cached run and its artifact.
func (r *RunRegistry) Remove(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[runID]; !ok {
		return
	}
	delete(r.entries, runID)
	for i, id := range r.order {
		if id == runID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of cached runs.
func (r *RunRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
