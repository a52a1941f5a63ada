// Package watcher invalidates in-memory state when the data files
// change on disk behind the daemon's back.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
)

const debounceDelay = 250 * time.Millisecond

// Invalidator is the piece of state the watcher flushes, typically the
// ledger store's cache.
type Invalidator interface {
	Invalidate()
}

// Watcher watches the data directory for external writes to the
// activity ledger. Burst edits (editors write several events per save)
// are debounced into a single invalidation.
type Watcher struct {
	dir    string
	target Invalidator
	logger *zap.Logger

	fs   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	pending *time.Timer
}

// New creates a watcher over the configured data directory.
func New(cfg config.DataConfig, target Invalidator, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		dir:    cfg.Dir,
		target: target,
		logger: logger,
		fs:     fs,
		done:   make(chan struct{}),
	}, nil
}

// Start begins watching. Returns immediately; events are handled on a
// background goroutine until Stop.
func (w *Watcher) Start() error {
	if err := w.fs.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	go w.loop()
	w.logger.Info("watching data directory", zap.String("dir", w.dir))
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	close(w.done)
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()
	w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Base(event.Name) != config.LedgerFile {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceDelay, func() {
		w.logger.Info("ledger changed externally, invalidating cache",
			zap.String("file", name))
		w.target.Invalidate()
	})
}
