// Package resolver answers "what is the value of reference R, interpreted
// from directory D" by walking an ordered search strategy over sibling
// files, parent directories and module boundaries, without running the
// configuration language.
//
// Every public operation is total: failures of any kind come back as a
// plain not-found, and I/O problems are logged and then treated the same
// way. Errors never propagate to callers.
package resolver

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vk/tfresolve/internal/cache"
	"github.com/vk/tfresolve/internal/ctxlog"
	"github.com/vk/tfresolve/internal/fsaccess"
	"github.com/vk/tfresolve/internal/ref"
	"github.com/vk/tfresolve/internal/workspace"
)

// DefaultMaxDepth bounds all recursion: nested-reference expansion, module
// chases and parent-directory fallback all draw from the same budget.
const DefaultMaxDepth = 10

// Options tunes an Engine.
type Options struct {
	// MaxDepth is the recursion bound. Zero takes DefaultMaxDepth.
	MaxDepth int
}

// Engine is the resolution engine. It is safe for concurrent use; the cache
// tolerates read-then-write races on the same key because cached values are
// immutable strings.
type Engine struct {
	fs       fsaccess.Accessor
	cache    *cache.Cache
	ws       *workspace.Workspace
	maxDepth int

	// Module source resolutions live for the lifetime of the engine, not the
	// cache TTL; directory structure changes far less often than values.
	sourceMu sync.RWMutex
	sources  map[string]string
}

// New creates an Engine over the given accessor, cache and workspace.
func New(fs fsaccess.Accessor, c *cache.Cache, ws *workspace.Workspace, opts Options) *Engine {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine{
		fs:       fs,
		cache:    c,
		ws:       ws,
		maxDepth: maxDepth,
		sources:  make(map[string]string),
	}
}

// Workspace returns the workspace the engine resolves inside.
func (e *Engine) Workspace() *workspace.Workspace {
	return e.ws
}

// Resolve looks up a reference starting from dir. The search order per
// directory is: override (.tfvars) files, locals, outputs, then a module
// chase for module-output references; when nothing matches, the same
// procedure retries in the parent directory until the workspace boundary.
// Values containing further references are expanded recursively.
func (e *Engine) Resolve(ctx context.Context, reference, dir string) (string, bool) {
	r, err := ref.Parse(reference)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("unparseable reference", "reference", reference, "error", err)
		return "", false
	}
	rc := newResolutionContext(e.maxDepth)
	return e.resolveRef(ctx, r, filepath.Clean(dir), rc, false)
}

// ResolveEnhanced behaves like Resolve but, before falling back to the
// parent directory, treats dir as a module's internal directory: it searches
// the parent for a module call whose source points back at dir and, when the
// call assigns the reference's name as an input, resolves that argument
// expression in the parent's own context. This finds values threaded in at
// the call site rather than declared locally.
func (e *Engine) ResolveEnhanced(ctx context.Context, reference, dir string) (string, bool) {
	r, err := ref.Parse(reference)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("unparseable reference", "reference", reference, "error", err)
		return "", false
	}
	rc := newResolutionContext(e.maxDepth)
	return e.resolveRef(ctx, r, filepath.Clean(dir), rc, true)
}

// resolveRef is the recursive core shared by both public modes. It owns the
// cycle guard and depth accounting; enhanced toggles module-input threading.
func (e *Engine) resolveRef(ctx context.Context, r *ref.Reference, dir string, rc *resolutionContext, enhanced bool) (string, bool) {
	logger := ctxlog.FromContext(ctx)

	if !rc.descend() {
		logger.Warn("resolution depth exceeded", "reference", r.String(), "dir", dir)
		return "", false
	}
	defer rc.ascend()

	if !rc.enter(dir, r.String()) {
		logger.Debug("reference cycle detected", "reference", r.String(), "dir", dir)
		return "", false
	}
	defer rc.leave(dir, r.String())

	base, projection := splitProjection(r)

	if v, ok := e.resolveInDir(ctx, base, dir, rc, enhanced); ok {
		return e.project(ctx, v, projection, r, dir)
	}

	if enhanced {
		if v, ok := e.resolveThreadedInput(ctx, base, dir, rc); ok {
			return e.project(ctx, v, projection, r, dir)
		}
	}

	if parent, ok := e.ws.Parent(dir); ok {
		return e.resolveRef(ctx, r, parent, rc, enhanced)
	}

	return "", false
}

// splitProjection separates the lookup target from the trailing property
// path. For data-attribute references the first path segment is the
// attribute being read and stays part of the base lookup.
func splitProjection(r *ref.Reference) (*ref.Reference, []string) {
	if r.Kind == ref.KindDataAttribute {
		if len(r.Property) <= 1 {
			return r, nil
		}
		base := *r
		base.Property = r.Property[:1]
		return &base, r.Property[1:]
	}
	return r.Base(), r.Property
}

// project applies a property projection path onto a resolved literal.
func (e *Engine) project(ctx context.Context, value string, projection []string, r *ref.Reference, dir string) (string, bool) {
	for _, prop := range projection {
		projected, ok := projectProperty(value, prop)
		if !ok {
			ctxlog.FromContext(ctx).Debug("property not found in resolved value",
				"reference", r.String(), "property", prop, "dir", dir)
			return "", false
		}
		value = projected
	}
	return value, true
}

// resolveInDir runs the per-directory search order without parent fallback.
// A hit is chased or expanded for nested references relative to the
// directory where the value was found before being returned; the chase keeps
// the caller's resolution mode.
func (e *Engine) resolveInDir(ctx context.Context, r *ref.Reference, dir string, rc *resolutionContext, enhanced bool) (string, bool) {
	if r.Kind == ref.KindModuleOutput {
		return e.resolveModuleOutput(ctx, r, dir, rc, enhanced)
	}

	if r.Kind == ref.KindDataAttribute {
		if v, ok := e.lookupDataAttribute(ctx, r, dir); ok {
			return e.chaseOrExpand(ctx, v, dir, rc, enhanced)
		}
		return "", false
	}

	if v, ok := e.lookupTFVars(ctx, r.Name, dir); ok {
		return e.chaseOrExpand(ctx, v, dir, rc, enhanced)
	}
	if v, ok := e.lookupLocal(ctx, r.Name, dir); ok {
		return e.chaseOrExpand(ctx, v, dir, rc, enhanced)
	}
	if v, ok := e.lookupOutput(ctx, r.Name, dir); ok {
		return e.chaseOrExpand(ctx, v, dir, rc, enhanced)
	}
	return "", false
}

// configFiles lists the .tf files of a directory in sorted order. I/O
// problems are logged and reported as an empty listing.
func (e *Engine) configFiles(ctx context.Context, dir string) []string {
	entries, err := e.fs.ListEntries(dir)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("directory unreadable", "dir", dir, "error", err)
		return nil
	}
	var files []string
	for _, name := range entries {
		if strings.HasSuffix(name, ".tf") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files
}

// readFile reads one file through the accessor, converting I/O errors into a
// logged miss.
func (e *Engine) readFile(ctx context.Context, path string) (string, bool) {
	text, err := e.fs.ReadText(path)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("file unreadable", "path", path, "error", err)
		return "", false
	}
	return text, true
}
