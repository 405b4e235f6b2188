package fs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Dir implements [Store] against a real directory on disk.
//
// All writes go through temp-file-plus-rename so a crash never leaves a
// half-written artifact behind.
type Dir struct {
	root string
}

// Compile-time interface check.
var _ Store = (*Dir)(nil)

// NewDir returns a [Dir] rooted at the given workspace directory.
// The directory itself is created if it does not exist.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace dir: %w", err)
	}

	mkdirErr := os.MkdirAll(abs, dirPerms)
	if mkdirErr != nil {
		return nil, fmt.Errorf("creating workspace dir: %w", mkdirErr)
	}

	return &Dir{root: abs}, nil
}

// Root returns the absolute workspace directory.
func (d *Dir) Root() string {
	return d.root
}

// resolve maps a workspace-relative path to an absolute one, rejecting
// anything that would escape the root.
func (d *Dir) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %s", errPathEscape, path)
	}

	return filepath.Join(d.root, cleaned), nil
}

// ReadFile returns the file content, or (nil, nil) if absent.
func (d *Dir) ReadFile(path string) ([]byte, error) {
	abs, err := d.resolve(path)
	if err != nil {
		return nil, err
	}

	content, readErr := os.ReadFile(abs) //nolint:gosec // path is confined to the workspace root
	if os.IsNotExist(readErr) {
		return nil, nil
	}

	if readErr != nil {
		return nil, fmt.Errorf("reading %s: %w", path, readErr)
	}

	return content, nil
}

// ReadFileBinary returns the file content, or (nil, nil) if absent.
func (d *Dir) ReadFileBinary(path string) ([]byte, error) {
	return d.ReadFile(path)
}

// WriteFile writes content atomically, creating parent directories.
func (d *Dir) WriteFile(path string, content []byte) error {
	abs, err := d.resolve(path)
	if err != nil {
		return err
	}

	mkdirErr := os.MkdirAll(filepath.Dir(abs), dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating parent dir for %s: %w", path, mkdirErr)
	}

	writeErr := atomic.WriteFile(abs, bytes.NewReader(content))
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}

	// atomic.WriteFile leaves temp-file permissions on new files.
	chmodErr := os.Chmod(abs, filePerms)
	if chmodErr != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, chmodErr)
	}

	return nil
}

// WriteFileBinary writes binary content atomically.
func (d *Dir) WriteFileBinary(path string, content []byte) error {
	return d.WriteFile(path, content)
}

// DeleteFile removes a file. Missing files are a no-op.
func (d *Dir) DeleteFile(path string) error {
	abs, err := d.resolve(path)
	if err != nil {
		return err
	}

	removeErr := os.Remove(abs)
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("deleting %s: %w", path, removeErr)
	}

	return nil
}

// ListFiles returns sorted file names directly under dir.
// A missing directory yields an empty slice.
func (d *Dir) ListFiles(dir string) ([]string, error) {
	abs, err := d.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, readErr := os.ReadDir(abs)
	if os.IsNotExist(readErr) {
		return []string{}, nil
	}

	if readErr != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, readErr)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// EnsureDir creates the directory and any parents.
func (d *Dir) EnsureDir(dir string) error {
	abs, err := d.resolve(dir)
	if err != nil {
		return err
	}

	mkdirErr := os.MkdirAll(abs, dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("creating dir %s: %w", dir, mkdirErr)
	}

	return nil
}

// Exists reports whether a file exists.
func (d *Dir) Exists(path string) (bool, error) {
	abs, err := d.resolve(path)
	if err != nil {
		return false, err
	}

	_, statErr := os.Stat(abs)
	if statErr == nil {
		return true, nil
	}

	if os.IsNotExist(statErr) {
		return false, nil
	}

	return false, fmt.Errorf("stat %s: %w", path, statErr)
}
