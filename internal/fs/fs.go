// Package fs provides the file storage capability for a tracedown workspace.
//
// A [Store] is scoped to one workspace directory and deals in relative,
// slash-separated paths. Missing files and directories are not errors:
// reads return nil, listings return an empty slice, deletes are no-ops.
// Write and delete failures always propagate.
package fs

import (
	"errors"
	"os"
)

// Store defines directory-scoped file operations for workspace content.
//
// Implementations must create parent directories on demand for writes and
// must distinguish "not found" (nil result, nil error) from real failures.
type Store interface {
	// ReadFile returns the file content, or (nil, nil) if the file does
	// not exist.
	ReadFile(path string) ([]byte, error)

	// ReadFileBinary is ReadFile without any text assumptions. Kept as a
	// separate method so callers document intent (assets vs markdown).
	ReadFileBinary(path string) ([]byte, error)

	// WriteFile writes content atomically, creating parent directories
	// as needed.
	WriteFile(path string, content []byte) error

	// WriteFileBinary writes binary content atomically.
	WriteFileBinary(path string, content []byte) error

	// DeleteFile removes a file. Deleting a nonexistent file is a no-op.
	DeleteFile(path string) error

	// ListFiles returns the file names (not paths) directly under dir,
	// sorted by name. A missing directory yields an empty slice.
	ListFiles(dir string) ([]string, error)

	// EnsureDir creates the directory and any parents.
	EnsureDir(dir string) error

	// Exists reports whether a file exists.
	Exists(path string) (bool, error)

	// Root returns the absolute workspace directory this store is
	// scoped to.
	Root() string
}

var errPathEscape = errors.New("path escapes workspace directory")

// IsNotExist reports whether err represents a missing file. Helper for
// callers that bypass the nil-on-missing convention.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
