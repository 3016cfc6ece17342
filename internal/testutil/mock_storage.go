// mock_storage.go - In-memory upload store for handler tests
package testutil

import (
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/docqa/backend/internal/storage"
)

// MockStorage implements storage.Store in memory. The *Err fields make the
// matching method fail.
type MockStorage struct {
	mu    sync.RWMutex
	names []string
	data  map[string][]byte
	seq   int

	SaveErr   error
	LatestErr error
	ClearErr  error
}

// NewMockStorage creates an empty store.
func NewMockStorage() *MockStorage {
	return &MockStorage{data: make(map[string][]byte)}
}

const mockDir = "/mock/uploads"

func (m *MockStorage) Dir() string { return mockDir }

func (m *MockStorage) Save(original string, r io.Reader) (*storage.SavedFile, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	name := fmt.Sprintf("%d_%s", m.seq, storage.SanitizeFilename(original))
	if _, exists := m.data[name]; !exists {
		m.names = append(m.names, name)
	}
	m.data[name] = b
	return &storage.SavedFile{Name: name, Path: path.Join(mockDir, name), Size: int64(len(b))}, nil
}

// Latest returns the most recently saved file.
func (m *MockStorage) Latest() (string, error) {
	if m.LatestErr != nil {
		return "", m.LatestErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.names) == 0 {
		return "", storage.ErrNoFiles
	}
	return path.Join(mockDir, m.names[len(m.names)-1]), nil
}

func (m *MockStorage) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.names...), nil
}

func (m *MockStorage) Clear() error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = nil
	m.data = make(map[string][]byte)
	return nil
}

func (m *MockStorage) Resolve(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.data[name]; !ok {
		return "", storage.ErrNotFound
	}
	return path.Join(mockDir, name), nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// FileData returns what was saved under name.
func (m *MockStorage) FileData(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[name]
	return b, ok
}

// Len returns the number of stored files.
func (m *MockStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}
