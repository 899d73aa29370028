// Package workspace models the directory boundary that resolution must not
// escape, plus the conventional per-environment directory layout used for
// multi-context lookups.
package workspace

import (
	"path/filepath"
	"strings"
)

// environmentDirs are conventional environment directory names, relative to
// the workspace root, probed during multi-context resolution. Nonexistent
// ones are skipped by the caller.
var environmentDirs = []string{
	"environments/dev",
	"environments/test",
	"environments/staging",
	"environments/prod",
	"environments/production",
	"env/dev",
	"env/test",
	"env/staging",
	"env/prod",
	"env/production",
	"dev",
	"test",
	"staging",
	"prod",
	"production",
}

// Workspace is the root directory all resolution stays inside.
type Workspace struct {
	root string
}

// New creates a Workspace rooted at root. The path is cleaned and made
// absolute-stable so containment checks are purely lexical afterwards.
func New(root string) *Workspace {
	return &Workspace{root: filepath.Clean(root)}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Contains reports whether dir is the root or a descendant of it.
func (w *Workspace) Contains(dir string) bool {
	dir = filepath.Clean(dir)
	if dir == w.root {
		return true
	}
	return strings.HasPrefix(dir, w.root+string(filepath.Separator))
}

// Parent returns dir's parent directory, but only while the parent is still
// inside the workspace. The second return is false once the boundary would
// be crossed.
func (w *Workspace) Parent(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	if dir == w.root {
		return "", false
	}
	parent := filepath.Dir(dir)
	if parent == dir || !w.Contains(parent) {
		return "", false
	}
	return parent, true
}

// CandidateContexts returns the ordered list of directories probed during
// multi-context resolution: the document's own directory first, then the
// workspace root, then the conventional environment directories. Duplicates
// are removed, order preserved.
func (w *Workspace) CandidateContexts(docDir string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}

	if docDir != "" {
		add(docDir)
	}
	add(w.root)
	for _, rel := range environmentDirs {
		add(filepath.Join(w.root, rel))
	}
	return out
}

// Resolve maps a module source expression to a directory path, relative to
// the directory declaring the module call. Relative sources (./x, ../x)
// resolve against baseDir; bare paths that exist under the workspace root
// resolve there. Registry and remote sources are not supported and return
// false.
func (w *Workspace) Resolve(baseDir, source string) (string, bool) {
	switch {
	case source == "":
		return "", false
	case strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../"):
		target := filepath.Clean(filepath.Join(baseDir, source))
		if !w.Contains(target) {
			return "", false
		}
		return target, true
	case strings.HasPrefix(source, "/"):
		if !w.Contains(source) {
			return "", false
		}
		return filepath.Clean(source), true
	case strings.Contains(source, "://") || strings.Contains(source, "git@"):
		// Remote sources are out of scope.
		return "", false
	case strings.Count(source, "/") >= 2 && !strings.Contains(source, "."):
		// Registry-shaped source (namespace/name/provider).
		return "", false
	default:
		// Bare relative path, tried against the declaring directory first,
		// then the workspace root.
		target := filepath.Clean(filepath.Join(baseDir, source))
		if w.Contains(target) {
			return target, true
		}
		target = filepath.Clean(filepath.Join(w.root, source))
		if w.Contains(target) {
			return target, true
		}
		return "", false
	}
}
