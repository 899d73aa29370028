// Package registry tracks the active resolution engine for each workspace.
// The registry is an explicit object owned by the application lifecycle,
// constructed at startup and torn down with Shutdown; nothing looks engines
// up through package-level state.
package registry

import (
	"path/filepath"
	"sync"

	"github.com/vk/tfresolve/internal/cache"
	"github.com/vk/tfresolve/internal/resolver"
)

// Entry pairs an engine with the cache it owns, so Shutdown can release
// both.
type Entry struct {
	Engine *resolver.Engine
	Cache  *cache.Cache
}

// Registry maps workspace roots to their resolution engines.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register associates an engine and its cache with a workspace root,
// replacing any previous registration for the same root.
func (r *Registry) Register(root string, engine *resolver.Engine, c *cache.Cache) {
	root = filepath.Clean(root)
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[root]; ok {
		prev.Cache.Close()
	}
	r.entries[root] = &Entry{Engine: engine, Cache: c}
}

// Lookup returns the engine registered for a workspace root.
func (r *Registry) Lookup(root string) (*resolver.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[filepath.Clean(root)]
	if !ok {
		return nil, false
	}
	return e.Engine, true
}

// Remove deregisters a workspace and releases its cache.
func (r *Registry) Remove(root string) {
	root = filepath.Clean(root)
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[root]; ok {
		e.Cache.Close()
		delete(r.entries, root)
	}
}

// Len returns the number of registered workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Shutdown releases every registered workspace.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for root, e := range r.entries {
		e.Cache.Close()
		delete(r.entries, root)
	}
}
