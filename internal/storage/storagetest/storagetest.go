// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/gratilog/internal/storage"
)

// RunProviderTests exercises the Provider contract against fresh stores
// built by newStore. newStore must return an initialized provider.
func RunProviderTests(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	ctx := context.Background()

	t.Run("missing collection is empty", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Get(ctx, storage.CollectionJournal)
		require.NoError(t, err)
		assert.True(t, rec.Empty())
		assert.Zero(t, rec.Version)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.CollectionMoods, []byte(`[{"id":"m1"}]`)))

		rec, err := s.Get(ctx, storage.CollectionMoods)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"m1"}]`, string(rec.Data))
		assert.Equal(t, int64(1), rec.Version)
	})

	t.Run("set bumps version and replaces whole collection", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.CollectionMoods, []byte(`[1,2,3]`)))
		require.NoError(t, s.Set(ctx, storage.CollectionMoods, []byte(`[4]`)))

		rec, err := s.Get(ctx, storage.CollectionMoods)
		require.NoError(t, err)
		assert.JSONEq(t, `[4]`, string(rec.Data))
		assert.Equal(t, int64(2), rec.Version)
	})

	t.Run("collections are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.CollectionBadges, []byte(`["b"]`)))

		rec, err := s.Get(ctx, storage.CollectionJournal)
		require.NoError(t, err)
		assert.True(t, rec.Empty())
	})

	t.Run("compare and set on fresh collection", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CompareAndSet(ctx, storage.CollectionJournal, 0, []byte(`[]`)))

		err := s.CompareAndSet(ctx, storage.CollectionJournal, 0, []byte(`["late"]`))
		assert.True(t, errors.Is(err, storage.ErrVersionConflict), "got %v", err)
	})

	t.Run("compare and set detects stale version", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.CollectionJournal, []byte(`["a"]`)))
		rec, err := s.Get(ctx, storage.CollectionJournal)
		require.NoError(t, err)

		require.NoError(t, s.CompareAndSet(ctx, storage.CollectionJournal, rec.Version, []byte(`["a","b"]`)))
		err = s.CompareAndSet(ctx, storage.CollectionJournal, rec.Version, []byte(`["a","c"]`))
		assert.ErrorIs(t, err, storage.ErrVersionConflict)

		rec, err = s.Get(ctx, storage.CollectionJournal)
		require.NoError(t, err)
		assert.JSONEq(t, `["a","b"]`, string(rec.Data))
		assert.Equal(t, int64(2), rec.Version)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.CollectionUser, []byte(`{"username":"mei"}`)))
		require.NoError(t, s.Set(ctx, storage.CollectionJournal, []byte(`["kept"]`)))
		require.NoError(t, s.Delete(ctx, storage.CollectionUser))
		require.NoError(t, s.Delete(ctx, storage.CollectionUser), "deleting twice is fine")

		rec, err := s.Get(ctx, storage.CollectionUser)
		require.NoError(t, err)
		assert.True(t, rec.Empty())

		rec, err = s.Get(ctx, storage.CollectionJournal)
		require.NoError(t, err)
		assert.False(t, rec.Empty())
	})
}
