package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"atlasdash/ports"

	logging "atlasdash/internal"
)

// KeyAPIBase is the one settings key in use: the API base URL override
const KeyAPIBase = "api_base"

// FileStore persists settings as a small JSON object on disk, the local
// analogue of browser-local storage. Reads that fail for any reason report
// absence so callers fall back to the compiled-in default; writes are
// best-effort and never surface errors.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  *logging.Logger
}

var _ ports.SettingsStore = (*FileStore)(nil)

// NewFileStore creates a store at path. An empty path yields a store that
// persists nothing and always reports absence.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, log: logging.DefaultLogger.With("localstore")}
}

func (s *FileStore) read() map[string]string {
	if s.path == "" {
		return map[string]string{}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]string{}
	}
	return values
}

func (s *FileStore) write(values map[string]string) {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Debug("settings dir not writable: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Debug("settings write failed: %v", err)
	}
}

// Get returns the stored value, or absence on any storage failure
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.read()[key]
	return value, ok && value != ""
}

// Set persists the value best-effort. No URL validation is performed.
func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	values[key] = value
	s.write(values)
}

// Clear removes the key, reverting readers to the default
func (s *FileStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	delete(values, key)
	s.write(values)
}

// MemoryStore is the in-memory swap-in for tests
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ ports.SettingsStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok && value != ""
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
