package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ContextValue is one multi-context resolution hit.
type ContextValue struct {
	// Dir is the candidate directory the value was resolved from.
	Dir string
	// Value is the resolved value text.
	Value string
}

// ResolveAll resolves a reference independently in each candidate directory
// and returns the non-empty hits. Resolutions run concurrently but results
// follow candidate order, not completion order. Candidates that do not exist
// are silently skipped; a missing directory and a directory without the
// value are indistinguishable in the result.
func (e *Engine) ResolveAll(ctx context.Context, reference string, dirs []string) []ContextValue {
	results := make([]*ContextValue, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		if !e.fs.IsDirectory(dir) {
			continue
		}
		i, dir := i, dir
		g.Go(func() error {
			if v, ok := e.ResolveEnhanced(gctx, reference, dir); ok {
				results[i] = &ContextValue{Dir: dir, Value: v}
			}
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	var out []ContextValue
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// ResolveContexts is ResolveAll over the workspace's conventional candidate
// directories for a document: the document's own directory, the workspace
// root, and the usual environment directory layouts.
func (e *Engine) ResolveContexts(ctx context.Context, reference, docDir string) []ContextValue {
	return e.ResolveAll(ctx, reference, e.ws.CandidateContexts(docDir))
}
