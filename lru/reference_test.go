package lru_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/lru"
	"github.com/fwojciec/scddb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCache_FindOrCreateReference(t *testing.T) {
	t.Parallel()

	t.Run("serves repeated lookups from cache", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.ReferenceService{
			FindOrCreateReferenceFn: func(_ context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
				calls++
				return 7, nil
			},
		}
		cache, err := lru.NewReferenceCache(next, 8)
		require.NoError(t, err)

		for range 3 {
			id, err := cache.FindOrCreateReference(context.Background(), scddb.RefDanceType, "Reel")
			require.NoError(t, err)
			assert.Equal(t, int64(7), id)
		}
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("keys by kind and name", func(t *testing.T) {
		t.Parallel()

		var seen []string
		next := &mock.ReferenceService{
			FindOrCreateReferenceFn: func(_ context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
				seen = append(seen, string(kind)+":"+name)
				return int64(len(seen)), nil
			},
		}
		cache, err := lru.NewReferenceCache(next, 8)
		require.NoError(t, err)
		ctx := context.Background()

		a, err := cache.FindOrCreateReference(ctx, scddb.RefDanceType, "Reel")
		require.NoError(t, err)
		b, err := cache.FindOrCreateReference(ctx, scddb.RefDanceFormat, "Reel")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Equal(t, []string{"dance_type:Reel", "dance_format:Reel"}, seen)
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.ReferenceService{
			FindOrCreateReferenceFn: func(context.Context, scddb.ReferenceKind, string) (int64, error) {
				calls++
				return 0, errors.New("database is locked")
			},
		}
		cache, err := lru.NewReferenceCache(next, 8)
		require.NoError(t, err)

		_, err = cache.FindOrCreateReference(context.Background(), scddb.RefSetType, "Square set")
		require.Error(t, err)
		_, err = cache.FindOrCreateReference(context.Background(), scddb.RefSetType, "Square set")
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.ReferenceService{
			FindOrCreateReferenceFn: func(context.Context, scddb.ReferenceKind, string) (int64, error) {
				calls++
				return int64(calls), nil
			},
		}
		cache, err := lru.NewReferenceCache(next, 1)
		require.NoError(t, err)
		ctx := context.Background()

		_, _ = cache.FindOrCreateReference(ctx, scddb.RefDanceType, "Reel")
		_, _ = cache.FindOrCreateReference(ctx, scddb.RefDanceType, "Jig")
		_, _ = cache.FindOrCreateReference(ctx, scddb.RefDanceType, "Reel")
		assert.Equal(t, 3, calls)
	})
}

func TestReferenceCache_FindReferences(t *testing.T) {
	t.Parallel()

	t.Run("delegates to wrapped service", func(t *testing.T) {
		t.Parallel()

		want := []*scddb.Reference{{ID: 1, Kind: scddb.RefSetType, Name: "Square set"}}
		next := &mock.ReferenceService{
			FindReferencesFn: func(_ context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error) {
				assert.Equal(t, scddb.RefSetType, kind)
				return want, nil
			},
		}
		cache, err := lru.NewReferenceCache(next, 0)
		require.NoError(t, err)

		got, err := cache.FindReferences(context.Background(), scddb.RefSetType)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
