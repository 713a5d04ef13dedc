package importmap

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FileResolver is the host-supplied file access capability: an existence
// check and a reader. Production and test implementations differ only in
// backing store.
type FileResolver interface {
	// Exists reports whether the file at path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadFile returns the file contents at path.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSFileResolver resolves paths relative to a project root on the local
// filesystem.
type OSFileResolver struct {
	root string
}

// NewOSFileResolver creates a filesystem-backed resolver rooted at root.
// An empty root resolves paths relative to the working directory.
func NewOSFileResolver(root string) *OSFileResolver {
	return &OSFileResolver{root: root}
}

func (r *OSFileResolver) abs(path string) string {
	if r.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}

// Exists reports whether the file at path exists.
func (r *OSFileResolver) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(r.abs(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ReadFile returns the file contents at path.
func (r *OSFileResolver) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(r.abs(path))
}

// MemFileResolver is an in-memory FileResolver for testing.
type MemFileResolver struct {
	mu    sync.RWMutex
	files map[string][]byte
	calls MemCalls

	// ReadErr, when set, is returned by every ReadFile call.
	ReadErr error
	// ExistsErr, when set, is returned by every Exists call.
	ExistsErr error
}

// MemCalls tracks method invocations for test verification.
type MemCalls struct {
	Exists int
	Read   int
}

// NewMemFileResolver creates an in-memory resolver seeded with files.
func NewMemFileResolver(files map[string]string) *MemFileResolver {
	m := &MemFileResolver{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[path] = []byte(content)
	}
	return m
}

// Put adds or replaces a file.
func (m *MemFileResolver) Put(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = []byte(content)
}

// Exists reports whether the file at path exists.
func (m *MemFileResolver) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	m.calls.Exists++
	m.mu.Unlock()

	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok, nil
}

// ReadFile returns the file contents at path.
func (m *MemFileResolver) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	m.calls.Read++
	m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Calls returns a snapshot of the invocation counters.
func (m *MemFileResolver) Calls() MemCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
