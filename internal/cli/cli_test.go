package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"var.region"}, &out)

	require.NoError(t, err)
	require.False(t, exit)
	require.NotNil(t, cfg)

	assert.Equal(t, "var.region", cfg.Reference)
	assert.Equal(t, ".", cfg.Workspace)
	assert.Equal(t, ".", cfg.Dir, "dir defaults to the workspace root")
	assert.False(t, cfg.Enhanced)
	assert.False(t, cfg.AllContexts)
	assert.False(t, cfg.Pretty)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_AllFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-workspace", "/infra",
		"-dir", "/infra/stacks/db",
		"-enhanced",
		"-pretty",
		"-property", "instance_type",
		"-max-depth", "5",
		"-log-format", "json",
		"-log-level", "debug",
		"var.size",
	}, &out)

	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "/infra", cfg.Workspace)
	assert.Equal(t, "/infra/stacks/db", cfg.Dir)
	assert.True(t, cfg.Enhanced)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, "instance_type", cfg.Property)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_NoReferencePrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-h"}, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidFlagValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus", "var.x"}},
		{"bad log format", []string{"-log-format", "xml", "var.x"}},
		{"bad log level", []string{"-log-level", "loud", "var.x"}},
		{"negative max depth", []string{"-max-depth", "-1", "var.x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)

			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
