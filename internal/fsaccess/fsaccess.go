// Package fsaccess is the only I/O surface the resolver touches. The
// Accessor interface keeps the engine testable against in-memory or
// instrumented file trees.
package fsaccess

import (
	"os"
)

// Accessor exposes the narrow set of filesystem operations the resolution
// engine needs. Implementations must be safe for concurrent use.
type Accessor interface {
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// IsDirectory reports whether path exists and is a directory.
	IsDirectory(path string) bool
	// ListEntries returns the names of the entries in a directory.
	ListEntries(path string) ([]string, error)
	// ReadText returns the content of a file as a string.
	ReadText(path string) (string, error)
}

// OS is the Accessor implementation backed by the real filesystem.
type OS struct{}

// NewOS returns a filesystem-backed accessor.
func NewOS() *OS {
	return &OS{}
}

func (*OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (*OS) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (*OS) ListEntries(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (*OS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
