package fs

import (
	"path"
	"sort"
	"strings"
	"sync"
)

// Memory implements [Store] entirely in memory. It exists for tests in this
// module and for callers that want a scratch workspace without touching disk.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// Compile-time interface check.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func normalize(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// Root returns a fixed placeholder root.
func (m *Memory) Root() string {
	return "/memory"
}

// ReadFile returns the file content, or (nil, nil) if absent.
func (m *Memory) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[normalize(p)]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(content))
	copy(out, content)

	return out, nil
}

// ReadFileBinary returns the file content, or (nil, nil) if absent.
func (m *Memory) ReadFileBinary(p string) ([]byte, error) {
	return m.ReadFile(p)
}

// WriteFile stores the content.
func (m *Memory) WriteFile(p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(content))
	copy(stored, content)
	m.files[normalize(p)] = stored

	return nil
}

// WriteFileBinary stores binary content.
func (m *Memory) WriteFileBinary(p string, content []byte) error {
	return m.WriteFile(p, content)
}

// DeleteFile removes a file. Missing files are a no-op.
func (m *Memory) DeleteFile(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, normalize(p))

	return nil
}

// ListFiles returns sorted file names directly under dir.
func (m *Memory) ListFiles(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := normalize(dir) + "/"

	var names []string

	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}

		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue // nested deeper than dir
		}

		names = append(names, rest)
	}

	sort.Strings(names)

	if names == nil {
		names = []string{}
	}

	return names, nil
}

// EnsureDir is a no-op: directories are implicit in memory.
func (m *Memory) EnsureDir(string) error {
	return nil
}

// Exists reports whether a file exists.
func (m *Memory) Exists(p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[normalize(p)]

	return ok, nil
}
