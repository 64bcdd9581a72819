// Package watcher provides a filesystem inbox for polygon drop-off.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler turns one GeoJSON payload into an encoded drawing.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// Config holds inbox configuration.
type Config struct {
	Path     string
	Outbox   string
	Debounce time.Duration
}

// Inbox watches a directory for dropped .geojson files, runs each one
// through the handler and writes the resulting drawing to the outbox.
// Events are debounced so partially written files settle before they
// are picked up; the source file is removed after a successful run.
type Inbox struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	logger    *slog.Logger
	path      string
	outbox    string
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a new inbox watcher.
func New(cfg Config, handler Handler, logger *slog.Logger) (*Inbox, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg.Debounce == 0 {
		cfg.Debounce = 500 * time.Millisecond
	}

	return &Inbox{
		fsWatcher: fsWatcher,
		handler:   handler,
		logger:    logger,
		path:      cfg.Path,
		outbox:    cfg.Outbox,
		debounce:  cfg.Debounce,
		pending:   make(map[string]time.Time),
	}, nil
}

// Start begins watching the inbox directory. Both the inbox and the
// outbox are created if missing.
func (i *Inbox) Start(ctx context.Context) error {
	if err := os.MkdirAll(i.path, 0750); err != nil {
		return err
	}
	if err := os.MkdirAll(i.outbox, 0750); err != nil {
		return err
	}

	absPath, err := filepath.Abs(i.path)
	if err != nil {
		return err
	}
	if err := i.fsWatcher.Add(absPath); err != nil {
		return err
	}
	i.logger.Info("watching inbox", "path", absPath, "outbox", i.outbox)

	go i.eventLoop(ctx)
	go i.debounceLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (i *Inbox) Stop() error {
	return i.fsWatcher.Close()
}

// eventLoop collects fsnotify events into the pending set.
func (i *Inbox) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-i.fsWatcher.Events:
			if !ok {
				return
			}
			i.handleFsEvent(event)

		case err, ok := <-i.fsWatcher.Errors:
			if !ok {
				return
			}
			i.logger.Error("inbox watcher error", "error", err)
		}
	}
}

// handleFsEvent records a create or write on a .geojson file. Every
// further event on the same file pushes its settle deadline back.
func (i *Inbox) handleFsEvent(event fsnotify.Event) {
	if !isGeoJSONFile(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	i.logger.Debug("inbox event", "path", event.Name, "op", event.Op.String())

	i.mu.Lock()
	i.pending[event.Name] = time.Now()
	i.mu.Unlock()
}

// debounceLoop picks up files whose events have settled.
func (i *Inbox) debounceLoop(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			for _, path := range i.settled() {
				go i.process(ctx, path)
			}
		}
	}
}

// settled removes and returns all pending paths older than the
// debounce interval.
func (i *Inbox) settled() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	var paths []string
	for path, last := range i.pending {
		if now.Sub(last) < i.debounce {
			continue
		}
		delete(i.pending, path)
		paths = append(paths, path)
	}
	return paths
}

// process runs one dropped file through the pipeline and moves the
// result to the outbox. The source file stays in place on failure so
// the drop can be retried.
func (i *Inbox) process(ctx context.Context, path string) {
	i.logger.Info("processing inbox file", "path", path)

	payload, err := os.ReadFile(path) //#nosec G304 -- path comes from the watched inbox
	if err != nil {
		i.logger.Error("failed to read inbox file", "path", path, "error", err)
		return
	}

	drawing, err := i.handler(ctx, payload)
	if err != nil {
		i.logger.Error("inbox run failed", "path", path, "error", err)
		return
	}

	dest := filepath.Join(i.outbox, drawingName(path))
	if err := os.WriteFile(dest, drawing, 0640); err != nil {
		i.logger.Error("failed to write drawing", "path", dest, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		i.logger.Warn("failed to remove processed file", "path", path, "error", err)
	}

	i.logger.Info("inbox file processed", "path", path, "drawing", dest)
}

// drawingName maps an inbox file name onto its outbox counterpart.
func drawingName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".dxf"
}

func isGeoJSONFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".geojson") || strings.HasSuffix(lower, ".json")
}
