// Package testutil provides a standardized harness for resolver tests:
// fixture file trees written to a temp directory, an engine wired over an
// instrumented accessor, and captured log output.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/tfresolve/internal/cache"
	"github.com/vk/tfresolve/internal/ctxlog"
	"github.com/vk/tfresolve/internal/fsaccess"
	"github.com/vk/tfresolve/internal/resolver"
	"github.com/vk/tfresolve/internal/workspace"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness bundles everything a resolver test needs.
type Harness struct {
	// Root is the workspace root on disk.
	Root string
	// Engine resolves inside Root.
	Engine *resolver.Engine
	// Cache is the engine's cache, exposed for invalidation tests.
	Cache *cache.Cache
	// FS counts accessor calls, exposed for read-count assertions.
	FS *fsaccess.Counting
	// Ctx carries a logger writing into LogOutput.
	Ctx context.Context
	// LogOutput captures everything the engine logged.
	LogOutput *SafeBuffer
}

// WriteFiles writes a relative-path -> content map under root, creating
// subdirectories as needed. Empty content creates an empty directory
// instead of a file.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if content == "" && filepath.Ext(name) == "" {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// NewHarness writes the fixture tree to a fresh temp directory and builds an
// engine over it.
func NewHarness(t *testing.T, files map[string]string) *Harness {
	t.Helper()
	return NewHarnessAt(t, t.TempDir(), files)
}

// NewHarnessAt builds an engine over an existing directory, used when the
// workspace root must sit below other fixture files.
func NewHarnessAt(t *testing.T, root string, files map[string]string) *Harness {
	t.Helper()

	require.NoError(t, os.MkdirAll(root, 0755))
	WriteFiles(t, root, files)

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	fs := fsaccess.NewCounting(fsaccess.NewOS())
	c := cache.New(cache.Config{
		TTL:           30 * time.Second,
		SweepInterval: time.Minute,
	})
	t.Cleanup(c.Close)

	engine := resolver.New(fs, c, workspace.New(root), resolver.Options{})

	return &Harness{
		Root:      root,
		Engine:    engine,
		Cache:     c,
		FS:        fs,
		Ctx:       ctx,
		LogOutput: logBuffer,
	}
}

// Dir returns an absolute path for a directory relative to the harness root.
func (h *Harness) Dir(rel string) string {
	return filepath.Join(h.Root, rel)
}
