package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/UkralStul/posts-presenter/internal/config"
	"github.com/UkralStul/posts-presenter/internal/storage/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFillWithMockData(t *testing.T) {
	store := inmemory.New()
	ctx := context.Background()
	require.NoError(t, fillWithMockData(ctx, store, zap.NewNop()))

	posts, err := store.GetPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	var enabled, disabled int
	for _, p := range posts {
		if p.CommentsEnabled {
			enabled++
			comments, err := store.GetCommentsByPostID(ctx, p.ID)
			require.NoError(t, err)
			assert.Len(t, comments, 3)
		} else {
			disabled++
		}
	}
	assert.Equal(t, 1, enabled)
	assert.Equal(t, 1, disabled)
}

func TestOpenStorage_SQLite(t *testing.T) {
	store, closeStore, err := openStorage(config.Config{
		Storage:    config.StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "seed.db"),
	})
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, fillWithMockData(context.Background(), store, zap.NewNop()))
}

func TestOpenStorage_InMemory(t *testing.T) {
	store, closeStore, err := openStorage(config.Config{Storage: config.StorageInMemory})
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &inmemory.Store{}, store)
}

func TestSeedIfEmpty_PersistentStoreSeedsOnce(t *testing.T) {
	cfg := config.Config{
		Storage:    config.StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "restart.db"),
	}
	ctx := context.Background()

	for start, wantSeeded := range []bool{true, false, false} {
		store, closeStore, err := openStorage(cfg)
		require.NoError(t, err)

		seeded, err := seedIfEmpty(ctx, store, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, wantSeeded, seeded, "start %d", start+1)

		posts, err := store.GetPosts(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 2, "start %d", start+1)
		closeStore()
	}
}

func TestSeedIfEmpty_InMemory(t *testing.T) {
	store := inmemory.New()

	seeded, err := seedIfEmpty(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, seeded)
}
