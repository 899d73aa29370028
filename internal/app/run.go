package app

import (
	"context"
	"fmt"

	"github.com/vk/tfresolve/internal/resolver"
)

// ErrNotFound marks a run whose reference had no resolvable value. The CLI
// maps it to a dedicated exit code.
var ErrNotFound = fmt.Errorf("reference not found")

// Run executes one resolution request based on the provided configuration
// and writes the result to the application's output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = a.contextWithLogger(ctx)
	cfg := a.config

	if a.watcher != nil {
		if err := a.watcher.Start(cfg.Workspace); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		// In watch mode the process stays up after the first resolution so
		// the watcher keeps the cache fresh until interrupted.
		defer func() { <-ctx.Done() }()
	}

	if cfg.AllContexts {
		return a.runAllContexts(ctx)
	}

	var value string
	var found bool
	switch {
	case cfg.Property != "":
		value, found = a.engine.ResolveProperty(ctx, cfg.Reference, cfg.Property, cfg.Dir)
	case cfg.Enhanced:
		value, found = a.engine.ResolveEnhanced(ctx, cfg.Reference, cfg.Dir)
	default:
		value, found = a.engine.Resolve(ctx, cfg.Reference, cfg.Dir)
	}

	if !found {
		a.logger.Info("reference not found", "reference", cfg.Reference, "dir", cfg.Dir)
		return ErrNotFound
	}

	fmt.Fprintln(a.outW, a.render(value))
	return nil
}

func (a *App) runAllContexts(ctx context.Context) error {
	hits := a.engine.ResolveContexts(ctx, a.config.Reference, a.config.Dir)
	if len(hits) == 0 {
		a.logger.Info("reference not found in any context", "reference", a.config.Reference)
		return ErrNotFound
	}
	for _, hit := range hits {
		fmt.Fprintf(a.outW, "%s\t%s\n", hit.Dir, a.render(hit.Value))
	}
	return nil
}

func (a *App) render(value string) string {
	if a.config.Pretty {
		return resolver.PrettyPrint(value)
	}
	return value
}
