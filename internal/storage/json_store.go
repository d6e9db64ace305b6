package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/logger"
)

const jsonStoreVersion = 1

type jsonCollection struct {
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type jsonDocument struct {
	Version     int                           `json:"version"`
	Collections map[Collection]jsonCollection `json:"collections"`
}

// JSONStore keeps every collection in a single JSON file. Writes go to a
// temporary file that is renamed over the original.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}

	s.doc = newJSONDocument()
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		// Keep the damaged file for inspection and start over empty
		aside := s.path + ".corrupt"
		logger.For("storage").Warn("Storage file is corrupt, starting fresh", "path", s.path, "moved_to", aside, "error", err)
		if err := os.Rename(s.path, aside); err != nil {
			return fmt.Errorf("failed to move corrupt storage aside: %w", err)
		}
		s.doc = newJSONDocument()
		return s.save()
	}
	if doc.Collections == nil {
		doc.Collections = make(map[Collection]jsonCollection)
	}

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(_ context.Context, c Collection) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return Record{}, ErrNotLoaded
	}
	col, ok := s.doc.Collections[c]
	if !ok {
		return Record{}, nil
	}
	return Record{Data: clone(col.Data), Version: col.Version}, nil
}

func (s *JSONStore) Set(_ context.Context, c Collection, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	return s.put(c, s.doc.Collections[c].Version+1, data)
}

func (s *JSONStore) CompareAndSet(_ context.Context, c Collection, expected int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if s.doc.Collections[c].Version != expected {
		return ErrVersionConflict
	}
	return s.put(c, expected+1, data)
}

func (s *JSONStore) Delete(_ context.Context, c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if _, ok := s.doc.Collections[c]; !ok {
		return nil
	}
	prev := s.doc.Collections[c]
	delete(s.doc.Collections, c)
	if err := s.save(); err != nil {
		s.doc.Collections[c] = prev
		return err
	}
	return nil
}

// put must be called with s.mu held. The in-memory document is rolled back
// if the file write fails.
func (s *JSONStore) put(c Collection, version int64, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("refusing to store invalid JSON in %s", c)
	}

	prev, existed := s.doc.Collections[c]
	s.doc.Collections[c] = jsonCollection{
		Data:      clone(data),
		Version:   version,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.save(); err != nil {
		if existed {
			s.doc.Collections[c] = prev
		} else {
			delete(s.doc.Collections, c)
		}
		return err
	}
	return nil
}

func newJSONDocument() *jsonDocument {
	return &jsonDocument{
		Version:     jsonStoreVersion,
		Collections: make(map[Collection]jsonCollection),
	}
}
