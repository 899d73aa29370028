package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfresolve/internal/cache"
)

func newTestWatcher(t *testing.T, c *cache.Cache) *Watcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	w, err := New(c, logger)
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_InvalidatesOnWrite(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "terraform.tfvars")
	require.NoError(t, os.WriteFile(file, []byte(`region = "us-east-1"`), 0644))

	c := cache.New(cache.Config{})
	t.Cleanup(c.Close)
	c.Set(cache.Key("tfvars", file, "region"), `"us-east-1"`)

	w := newTestWatcher(t, c)
	require.NoError(t, w.Start(root))

	require.NoError(t, os.WriteFile(file, []byte(`region = "eu-west-1"`), 0644))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(cache.Key("tfvars", file, "region"))
		return !ok
	}, 2*time.Second, 20*time.Millisecond, "cached entry should be invalidated after the write")
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()

	c := cache.New(cache.Config{})
	t.Cleanup(c.Close)
	key := cache.Key("tfvars", filepath.Join(root, "notes.txt"), "region")
	c.Set(key, "v")

	w := newTestWatcher(t, c)
	require.NoError(t, w.Start(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0644))

	// Give the watcher time to (wrongly) act, then confirm it did not.
	time.Sleep(300 * time.Millisecond)
	_, ok := c.Get(key)
	assert.True(t, ok)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("main.tf"))
	assert.True(t, relevant("env/prod.tfvars"))
	assert.False(t, relevant("README.md"))
	assert.False(t, relevant("main.tf.bak"))
}
