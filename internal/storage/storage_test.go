package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gratilog/internal/storage"
	"github.com/julianstephens/gratilog/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return storage.NewMemoryStore()
	})
}

func TestJSONStore(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		s := storage.NewJSONStore(filepath.Join(t.TempDir(), "gratilog.json"))
		require.NoError(t, s.Init())
		return s
	})
}

func TestJSONStorePersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "gratilog.json")

	first := storage.NewJSONStore(path)
	require.NoError(t, first.Init())
	require.NoError(t, first.Set(ctx, storage.CollectionJournal, []byte(`[{"id":"e1"}]`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second := storage.NewJSONStore(path)
	require.NoError(t, second.Load())
	rec, err := second.Get(ctx, storage.CollectionJournal)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e1"}]`, string(rec.Data))
	assert.Equal(t, int64(1), rec.Version)
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init")
}

func TestJSONStoreCorruptFileStartsFresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gratilog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := storage.NewJSONStore(path)
	require.NoError(t, s.Load())

	rec, err := s.Get(ctx, storage.CollectionJournal)
	require.NoError(t, err)
	assert.True(t, rec.Empty())

	kept, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}

func TestJSONStoreRejectsInvalidJSON(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "gratilog.json"))
	require.NoError(t, s.Init())
	assert.Error(t, s.Set(context.Background(), storage.CollectionMoods, []byte("nope")))
}

func TestJSONStoreNotLoaded(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "gratilog.json"))
	_, err := s.Get(context.Background(), storage.CollectionMoods)
	assert.ErrorIs(t, err, storage.ErrNotLoaded)
}
