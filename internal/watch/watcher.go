// Package watch bridges filesystem change notifications to cache
// invalidation. A change to a configuration file drops every cached value
// derived from it; resolution then re-reads on the next request.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/tfresolve/internal/cache"
)

// debounceWindow coalesces event bursts from editors that write files in
// several syscalls.
const debounceWindow = 100 * time.Millisecond

// skippedDirs are directory names never watched.
var skippedDirs = map[string]bool{
	".git":         true,
	".terraform":   true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// Watcher monitors a directory tree and invalidates cache entries for
// changed configuration files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cache  *cache.Cache
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Watcher that feeds invalidations into c.
func New(c *cache.Cache, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fsw:     fsw,
		cache:   c,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]struct{}),
	}, nil
}

// Start watches root and all its subdirectories and begins processing
// events.
func (w *Watcher) Start(root string) error {
	if err := w.addWatches(root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents()

	w.logger.Debug("file watcher started", "root", root)
	return nil
}

// Stop shuts the watcher down and waits for the event goroutine to finish.
func (w *Watcher) Stop() {
	w.cancel()
	if err := w.fsw.Close(); err != nil {
		w.logger.Debug("error closing watcher", "error", err)
	}
	w.wg.Wait()
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// relevant reports whether a path affects resolution results.
func relevant(path string) bool {
	return strings.HasSuffix(path, ".tf") || strings.HasSuffix(path, ".tfvars")
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
			timer.Reset(debounceWindow)

		case <-timer.C:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories join the watch set so files created later are seen.
	if event.Op.Has(fsnotify.Create) && !skippedDirs[filepath.Base(event.Name)] {
		if err := w.fsw.Add(event.Name); err == nil {
			w.logger.Debug("watching new path", "path", event.Name)
		}
	}

	if !relevant(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		w.mu.Lock()
		w.pending[event.Name] = struct{}{}
		w.mu.Unlock()
	}
}

// flush invalidates cache entries for every path collected during the
// debounce window.
func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for _, p := range paths {
		removed := w.cache.Invalidate(p)
		w.logger.Debug("invalidated cached values", "path", p, "entries", removed)
	}
}
