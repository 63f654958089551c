// Package persist stores the serialized editor collection in durable media.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned by Load when nothing is stored under the key.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when no durable medium exists in this context.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrClosed is returned by storages used after Close.
	ErrClosed = errors.New("storage closed")
)

// Storage is a key/value medium for serialized records.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config selects and locates a storage backend.
type Config struct {
	Backend string
	// Path is a directory for the file backend and a database file for sqlite.
	Path string
}

// New opens the configured backend. The close function is always non-nil.
func New(cfg Config) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory, "":
		return NewMemory(), noop, nil
	case BackendNone:
		return Unavailable{}, noop, nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, noop, fmt.Errorf("file storage: path is required")
		}
		return NewFile(cfg.Path), noop, nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, noop, fmt.Errorf("sqlite storage: path is required")
		}
		s, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// MemoryStorage keeps records in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Load returns a copy of the stored bytes.
func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data.
func (m *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Unavailable is the storage used where no durable medium exists.
type Unavailable struct{}

// Load always fails with ErrUnavailable.
func (Unavailable) Load(context.Context, string) ([]byte, error) { return nil, ErrUnavailable }

// Save always fails with ErrUnavailable.
func (Unavailable) Save(context.Context, string, []byte) error { return ErrUnavailable }
