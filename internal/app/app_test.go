package app_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfresolve/internal/app"
	"github.com/vk/tfresolve/internal/testutil"
)

func newApp(t *testing.T, out io.Writer, cfg app.Config) *app.App {
	t.Helper()
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)
	a, err := app.NewApp(out, io.Discard, validated)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestRun_ResolvesReference(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"terraform.tfvars": `region = "us-east-1"` + "\n",
	})

	var out bytes.Buffer
	a := newApp(t, &out, app.Config{
		Workspace: root,
		Reference: "var.region",
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, `"us-east-1"`+"\n", out.String())
}

func TestRun_NotFound(t *testing.T) {
	var out bytes.Buffer
	a := newApp(t, &out, app.Config{
		Workspace: t.TempDir(),
		Reference: "var.missing",
	})

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, app.ErrNotFound)
	assert.Empty(t, out.String())
}

func TestRun_PrettyUnquotesStrings(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"terraform.tfvars": `region = "us-east-1"` + "\n",
	})

	var out bytes.Buffer
	a := newApp(t, &out, app.Config{
		Workspace: root,
		Reference: "var.region",
		Pretty:    true,
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "us-east-1\n", out.String())
}

func TestRun_AllContexts(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"environments/dev/terraform.tfvars":  `size = "t3.micro"` + "\n",
		"environments/prod/terraform.tfvars": `size = "t3.large"` + "\n",
	})

	var out bytes.Buffer
	a := newApp(t, &out, app.Config{
		Workspace:   root,
		Reference:   "var.size",
		AllContexts: true,
	})

	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out.String(), filepath.Join(root, "environments", "dev")+"\t"+`"t3.micro"`)
	assert.Contains(t, out.String(), filepath.Join(root, "environments", "prod")+"\t"+`"t3.large"`)
}

func TestRun_PropertyProjection(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"terraform.tfvars": `
cfg = {
  instance_type = "t3.medium"
  count         = 2
}
`,
	})

	var out bytes.Buffer
	a := newApp(t, &out, app.Config{
		Workspace: root,
		Reference: "var.cfg",
		Property:  "instance_type",
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, `"t3.medium"`+"\n", out.String())
}

func TestNewApp_RejectsBadWorkspace(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{
		Workspace: "/does/not/exist",
		Reference: "var.x",
	})
	require.NoError(t, err)

	_, err = app.NewApp(io.Discard, io.Discard, cfg)
	assert.ErrorContains(t, err, "not a directory")
}

func TestNewApp_RejectsDirOutsideWorkspace(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	cfg, err := app.NewConfig(app.Config{
		Workspace: root,
		Dir:       outside,
		Reference: "var.x",
	})
	require.NoError(t, err)

	_, err = app.NewApp(io.Discard, io.Discard, cfg)
	assert.ErrorContains(t, err, "outside workspace")
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := app.NewConfig(app.Config{Workspace: "."})
	assert.ErrorContains(t, err, "Reference")

	_, err = app.NewConfig(app.Config{Reference: "var.x", Workspace: ""})
	assert.ErrorContains(t, err, "Workspace")

	cfg, err := app.NewConfig(app.Config{Reference: "var.x", Workspace: "/ws"})
	require.NoError(t, err)
	assert.Equal(t, "/ws", cfg.Dir)
}
