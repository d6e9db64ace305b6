package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "gratilog.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProviderContract(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestLoadRequiresInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); err == nil {
		t.Fatal("expected Load to fail on a missing database")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gratilog.db")

	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := s.Set(ctx, storage.CollectionJournal, []byte(`[{"id":"e1"}]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	rec, err := reopened.Get(ctx, storage.CollectionJournal)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(rec.Data) != `[{"id":"e1"}]` || rec.Version != 1 {
		t.Errorf("unexpected record after reopen: %s v%d", rec.Data, rec.Version)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gratilog.db")
	for i := 0; i < 2; i++ {
		s := NewStore(path)
		if err := s.Init(); err != nil {
			t.Fatalf("Init() #%d failed: %v", i+1, err)
		}
		s.Close()
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestNotLoaded(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "gratilog.db"))
	if _, err := s.Get(context.Background(), storage.CollectionUser); err != storage.ErrNotLoaded {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
