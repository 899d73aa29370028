package resolver

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/tfresolve/internal/cache"
	"github.com/vk/tfresolve/internal/ctxlog"
	"github.com/vk/tfresolve/internal/extract"
	"github.com/vk/tfresolve/internal/ref"
)

// Per-file lookup results are cached under keys that embed the file path, so
// cache.Invalidate(path) reliably drops everything derived from a changed
// file. Only hits are cached; misses re-scan, which is cheap relative to the
// multi-line brace scan of a hit.

// tfvarsFiles returns the override files of a directory in precedence order:
// terraform.tfvars first, then *.auto.tfvars sorted, then any remaining
// *.tfvars sorted.
func (e *Engine) tfvarsFiles(ctx context.Context, dir string) []string {
	entries, err := e.fs.ListEntries(dir)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("directory unreadable", "dir", dir, "error", err)
		return nil
	}

	var canonical, auto, rest []string
	for _, name := range entries {
		switch {
		case name == "terraform.tfvars":
			canonical = append(canonical, name)
		case strings.HasSuffix(name, ".auto.tfvars"):
			auto = append(auto, name)
		case strings.HasSuffix(name, ".tfvars"):
			rest = append(rest, name)
		}
	}
	sort.Strings(auto)
	sort.Strings(rest)

	var files []string
	for _, name := range append(append(canonical, auto...), rest...) {
		files = append(files, filepath.Join(dir, name))
	}
	return files
}

// lookupTFVars searches the directory's override files for `name = value`.
// The first file (in precedence order) declaring the name wins.
func (e *Engine) lookupTFVars(ctx context.Context, name, dir string) (string, bool) {
	for _, file := range e.tfvarsFiles(ctx, dir) {
		key := cache.Key("tfvars", file, name)
		if v, ok := e.cache.Get(key); ok {
			return v, true
		}
		text, ok := e.readFile(ctx, file)
		if !ok {
			continue
		}
		if v, ok := extract.AssignedValue(text, name); ok {
			e.cache.Set(key, v)
			return v, true
		}
	}
	return "", false
}

// lookupLocal searches every locals block in the directory's .tf files for a
// declaration of name.
func (e *Engine) lookupLocal(ctx context.Context, name, dir string) (string, bool) {
	for _, file := range e.configFiles(ctx, dir) {
		key := cache.Key("locals", file, name)
		if v, ok := e.cache.Get(key); ok {
			return v, true
		}
		text, ok := e.readFile(ctx, file)
		if !ok {
			continue
		}
		for _, body := range extract.LocalsBodies(text) {
			if v, ok := extract.AssignedValue(body, name); ok {
				e.cache.Set(key, v)
				return v, true
			}
		}
	}
	return "", false
}

// lookupOutput searches the directory's .tf files for an
// `output "name" { value = ... }` block and returns the value expression.
func (e *Engine) lookupOutput(ctx context.Context, name, dir string) (string, bool) {
	for _, file := range e.configFiles(ctx, dir) {
		key := cache.Key("output", file, name)
		if v, ok := e.cache.Get(key); ok {
			return v, true
		}
		text, ok := e.readFile(ctx, file)
		if !ok {
			continue
		}
		body, ok := extract.Block(text, "output", name)
		if !ok {
			continue
		}
		if v, ok := extract.AssignedValue(body, "value"); ok {
			e.cache.Set(key, v)
			return v, true
		}
	}
	return "", false
}

// lookupDataAttribute finds a `data "type" "name"` block in the directory
// and returns the configured text of the requested attribute. This is
// best-effort textual inference: it surfaces what the configuration assigns,
// not what the data source would return at plan time.
func (e *Engine) lookupDataAttribute(ctx context.Context, r *ref.Reference, dir string) (string, bool) {
	if len(r.Property) == 0 {
		return "", false
	}
	attr := r.Property[0]

	for _, file := range e.configFiles(ctx, dir) {
		key := cache.Key("data", file, r.DataType, r.Name, attr)
		if v, ok := e.cache.Get(key); ok {
			return v, true
		}
		text, ok := e.readFile(ctx, file)
		if !ok {
			continue
		}
		for _, block := range extract.DataBlocks(text) {
			if block.Type != r.DataType || block.Name != r.Name {
				continue
			}
			if v, ok := extract.AssignedValue(block.Body, attr); ok {
				e.cache.Set(key, v)
				return v, true
			}
		}
	}
	return "", false
}
