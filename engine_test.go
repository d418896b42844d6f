package omnisearch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/omnisearch/config"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/provider"
	"github.com/poiesic/omnisearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	score float64
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, query string, _ int) ([]core.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []core.SearchResult{
		core.NewSearchResult(query+" on "+s.name, "https://"+s.name+".example", "", "Stub", s.score),
	}, nil
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache")
	return config.NewConfig(
		config.WithCacheBackend(backend),
		config.WithCachePath(path),
		config.WithPoolSize(2),
	)
}

func TestNewEngine(t *testing.T) {
	t.Run("built-in providers", func(t *testing.T) {
		engine, err := NewEngine(testConfig(t, config.BackendFile))
		require.NoError(t, err)
		defer engine.Close()

		assert.Equal(t, provider.DefaultOrder, engine.Providers())
		assert.NotNil(t, engine.Orchestrator())
		assert.Equal(t, config.BackendFile, engine.Config().Cache.Backend)
	})

	t.Run("disabled providers are not registered", func(t *testing.T) {
		off := false
		cfg := testConfig(t, config.BackendFile)
		cfg.Providers.Brave.Enabled = &off

		engine, err := NewEngine(cfg)
		require.NoError(t, err)
		defer engine.Close()

		assert.NotContains(t, engine.Providers(), provider.NameBrave)
		assert.Len(t, engine.Providers(), len(provider.DefaultOrder)-1)
	})

	for _, backend := range []string{config.BackendFile, config.BackendBadger, config.BackendSQLite} {
		t.Run("backend "+backend, func(t *testing.T) {
			stub := &stubProvider{name: "stub", score: 1}
			engine, err := NewEngine(testConfig(t, backend), WithProviders(stub))
			require.NoError(t, err)

			ctx := context.Background()
			_, err = engine.Search(ctx, "q", nil, 5)
			require.NoError(t, err)
			_, err = engine.Search(ctx, "q", nil, 5)
			require.NoError(t, err)
			assert.Equal(t, 1, stub.calls)

			require.NoError(t, engine.Close())
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		engine, err := NewEngine(config.NewConfig(config.WithCacheBackend("redis")))
		assert.ErrorIs(t, err, config.ErrUnknownBackend)
		assert.Nil(t, engine)
	})

	t.Run("unopenable cache path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(blocker, []byte("test"), 0o644))

		cfg := config.NewConfig(config.WithCachePath(filepath.Join(blocker, "cache.json")))
		engine, err := NewEngine(cfg)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("duplicate providers", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)
		_, err := NewEngine(cfg, WithProviders(&stubProvider{name: "x"}, &stubProvider{name: "x"}))
		assert.ErrorIs(t, err, provider.ErrDuplicateProvider)
	})
}

func TestEngine_Operations(t *testing.T) {
	cache, err := badger.NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	low := &stubProvider{name: "low", score: 0.9}
	high := &stubProvider{name: "high", score: 5}
	broken := &stubProvider{name: "broken", err: errors.New("offline")}

	engine, err := NewEngine(testConfig(t, config.BackendFile), WithCache(cache), WithProviders(low, high, broken))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()

	t.Run("search", func(t *testing.T) {
		results, err := engine.Search(ctx, "rust ownership", nil, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Len(t, results["low"], 1)
		assert.Empty(t, results["broken"])
	})

	t.Run("combined", func(t *testing.T) {
		results, err := engine.CombiFetch(ctx, "rust ownership", []string{"low", "high"}, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "High: Stub", results[0].Source)
		assert.Equal(t, "Low: Stub", results[1].Source)
	})

	t.Run("folder", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("rust ownership rules"), 0o644))

		results, err := engine.FolderFetch(ctx, "ownership", root, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "File: a.txt", results[0].Title)
	})

	t.Run("history", func(t *testing.T) {
		h := engine.History()
		require.Len(t, h, 2)
		assert.Equal(t, "rust ownership", h[0].Query)
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"low": true, "high": true, "broken": false}, engine.Status(ctx))
	})

	t.Run("clear cache", func(t *testing.T) {
		before := low.calls
		require.NoError(t, engine.ClearCache(ctx))
		_, err := engine.Search(ctx, "rust ownership", []string{"low"}, 10)
		require.NoError(t, err)
		assert.Equal(t, before+1, low.calls)
	})

	t.Run("close leaves borrowed cache open", func(t *testing.T) {
		other, err := NewEngine(testConfig(t, config.BackendFile), WithCache(cache), WithProviders(low))
		require.NoError(t, err)
		require.NoError(t, other.Close())

		_, _, err = cache.Get(ctx, "anything", "low")
		assert.NoError(t, err)
	})
}

func TestOpenCache(t *testing.T) {
	_, err := OpenCache(config.CacheConfig{Backend: "memcached", Path: t.TempDir()}, nil)
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}
