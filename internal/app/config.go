package app

import (
	"errors"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Workspace string // workspace root; resolution never escapes it
	Dir       string // directory the reference is interpreted from
	Reference string // reference to resolve, e.g. var.region

	Enhanced    bool   // enable module-input threading
	AllContexts bool   // resolve across conventional environment directories
	Property    string // optional property to project from the resolved value
	Pretty      bool   // render structured values as compact JSON
	Watch       bool   // keep running and invalidate cache on file changes

	LogFormat string
	LogLevel  string
	MaxDepth  int
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Reference == "" {
		return nil, errors.New("Reference is a required configuration field and cannot be empty")
	}
	if cfg.Workspace == "" {
		return nil, errors.New("Workspace is a required configuration field and cannot be empty")
	}
	if cfg.Dir == "" {
		cfg.Dir = cfg.Workspace
	}

	cfg.Workspace = filepath.Clean(cfg.Workspace)
	cfg.Dir = filepath.Clean(cfg.Dir)

	return &cfg, nil
}
