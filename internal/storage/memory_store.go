package storage

import (
	"context"
	"sync"

	"github.com/julianstephens/gratilog/internal/constants"
)

// MemoryStore keeps collections in process memory. Each instance is
// isolated, which makes it the store of choice for tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[Collection]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[Collection]Record)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryStorePath
}

func (s *MemoryStore) Get(_ context.Context, c Collection) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[c]
	if !ok {
		return Record{}, nil
	}
	return Record{Data: clone(rec.Data), Version: rec.Version}, nil
}

func (s *MemoryStore) Set(_ context.Context, c Collection, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[c] = Record{Data: clone(data), Version: s.collections[c].Version + 1}
	return nil
}

func (s *MemoryStore) CompareAndSet(_ context.Context, c Collection, expected int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[c].Version != expected {
		return ErrVersionConflict
	}
	s.collections[c] = Record{Data: clone(data), Version: expected + 1}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, c)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
