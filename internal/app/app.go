package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tfresolve/internal/cache"
	"github.com/vk/tfresolve/internal/ctxlog"
	"github.com/vk/tfresolve/internal/fsaccess"
	"github.com/vk/tfresolve/internal/registry"
	"github.com/vk/tfresolve/internal/resolver"
	"github.com/vk/tfresolve/internal/watch"
	"github.com/vk/tfresolve/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: one registry of engines, one cache per workspace, and an
// optional file watcher feeding invalidations.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	engine   *resolver.Engine
	cache    *cache.Cache
	watcher  *watch.Watcher
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("logger configured")

	fs := fsaccess.NewOS()
	if !fs.IsDirectory(cfg.Workspace) {
		return nil, fmt.Errorf("workspace is not a directory: %s", cfg.Workspace)
	}

	ws := workspace.New(cfg.Workspace)
	if !ws.Contains(cfg.Dir) {
		return nil, fmt.Errorf("directory %s is outside workspace %s", cfg.Dir, cfg.Workspace)
	}

	c := cache.New(cache.Config{})
	engine := resolver.New(fs, c, ws, resolver.Options{MaxDepth: cfg.MaxDepth})

	reg := registry.New()
	reg.Register(ws.Root(), engine, c)
	logger.Debug("engine registered", "workspace", ws.Root())

	app := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		engine:   engine,
		cache:    c,
	}

	if cfg.Watch {
		watcher, err := watch.New(c, logger)
		if err != nil {
			reg.Shutdown()
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		app.watcher = watcher
	}

	return app, nil
}

// Engine returns the application's resolution engine. This is primarily for
// testing.
func (a *App) Engine() *resolver.Engine {
	return a.engine
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// InvalidatePath drops every cached value derived from the given file. This
// is the entry point a file-change notification stream calls into.
func (a *App) InvalidatePath(path string) {
	removed := a.cache.Invalidate(path)
	a.logger.Debug("invalidated cached values", "path", path, "entries", removed)
}

// Close tears the application down: watcher first, then every registered
// engine and cache.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.registry.Shutdown()
}

// contextWithLogger threads the application logger into a context for the
// resolution call tree.
func (a *App) contextWithLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
