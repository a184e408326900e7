package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persister stores one serialized session. Load reports ok=false when
// nothing has been saved yet.
type Persister interface {
	Load() (s Session, ok bool, err error)
	Save(Session) error
	Clear() error
}

// MemoryPersister keeps the session in-process. Used by tests and as the
// default when no durable backend is configured.
type MemoryPersister struct {
	mu  sync.Mutex
	s   Session
	set bool
}

// NewMemoryPersister returns an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load() (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, m.set, nil
}

func (m *MemoryPersister) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	m.set = true
	return nil
}

func (m *MemoryPersister) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	m.set = false
	return nil
}

// FilePersister serializes the session as JSON to a single file, the durable
// device-storage analogue.
type FilePersister struct {
	path string
}

// NewFilePersister creates the parent directory if missing. An empty path
// defaults to "auth-storage.json" in the working directory.
func NewFilePersister(path string) (*FilePersister, error) {
	if path == "" {
		path = StorageKey + ".json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	return &FilePersister{path: path}, nil
}

func (f *FilePersister) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, fmt.Errorf("parse session: %w", err)
	}
	return s, true, nil
}

func (f *FilePersister) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *FilePersister) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
