package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "db")
	backend, err := OpenBackend(tmpDir, false, nil)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	_, err := OpenBackend(tmpFile, false, nil)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestMakeCacheKey(t *testing.T) {
	key := makeCacheKey("rust ownership", "github")
	assert.Equal(t, "cache:"+core.CacheKey("rust ownership", "github"), string(key))
}

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	stamp := time.Date(2025, 5, 6, 7, 8, 9, 123456789, time.UTC)
	results := []core.SearchResult{
		{Title: "tokio-rs/tokio - runtime", URL: "https://github.com/tokio-rs/tokio", Snippet: "Stars: 27000", Source: "github", RelevanceScore: 27.3, Timestamp: stamp},
		{Title: "tokio-rs/mini-redis", URL: "https://github.com/tokio-rs/mini-redis", Source: "github", RelevanceScore: 3.1},
	}

	_, ok, err := cache.Get(ctx, "tokio", "github")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "tokio", "github", results))

	got, ok, err := cache.Get(ctx, "tokio", "github")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestCache_StoresMUSValues(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	now := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	cache, err := NewCacheWithBackend(backend, storage.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	ctx := context.Background()
	results := []core.SearchResult{{Title: "Ownership", URL: "https://doc.rust-lang.org", Source: "brave", RelevanceScore: 0.9}}
	require.NoError(t, cache.Set(ctx, "rust", "brave", results))

	readRaw := func() []byte {
		var raw []byte
		require.NoError(t, backend.WithTx(func(tx *badger.Txn) error {
			item, err := tx.Get(makeCacheKey("rust", "brave"))
			if err != nil {
				return err
			}
			raw, err = item.ValueCopy(nil)
			return err
		}, false))
		return raw
	}

	t.Run("value is a MUS cache entry", func(t *testing.T) {
		entry, err := storage.UnmarshalCacheEntry(readRaw())
		require.NoError(t, err)
		assert.Equal(t, &core.CacheEntry{Results: results, Timestamp: now}, entry)
	})

	t.Run("unreadable value is a miss", func(t *testing.T) {
		require.NoError(t, backend.WithTx(func(tx *badger.Txn) error {
			if err := tx.Set(makeCacheKey("rust", "brave"), []byte(`{"results":[]}`)); err != nil {
				return err
			}
			return tx.Commit()
		}, true))

		got, ok, err := cache.Get(ctx, "rust", "brave")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestCache_EmptyResultsAreHits(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "zzz", "wikipedia", nil))

	got, ok, err := cache.Get(ctx, "zzz", "wikipedia")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestCache_SimulatedExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	cache, err := NewMemoryCache(storage.WithClock(clock))
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "q", "brave", []core.SearchResult{{Title: "a"}}))

	now = now.Add(core.DefaultTTL + time.Second)
	_, ok, err := cache.Get(ctx, "q", "brave")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", "brave", []core.SearchResult{{Title: "a"}}))
	require.NoError(t, cache.Set(ctx, "b", "arxiv", []core.SearchResult{{Title: "b"}}))
	require.NoError(t, cache.Clear(ctx))

	_, ok, err := cache.Get(ctx, "a", "brave")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.Get(ctx, "b", "arxiv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_OnDiskSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := NewCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "q", "stackoverflow", []core.SearchResult{{Title: "persisted"}}))
	require.NoError(t, cache.Close())

	cache, err = NewCache(dir)
	require.NoError(t, err)
	defer cache.Close()

	got, ok, err := cache.Get(ctx, "q", "stackoverflow")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", got[0].Title)
}

func TestCache_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	cache, err := NewCacheWithBackend(backend)
	require.NoError(t, err)
	require.NoError(t, cache.Close())
	assert.False(t, backend.IsClosed(), "cache must not close a backend it does not own")
}

func TestCache_Closed(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	_, _, err = cache.Get(context.Background(), "q", "brave")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
