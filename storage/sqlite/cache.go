// Package sqlite implements storage.ResultCache on a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/storage"

	_ "modernc.org/sqlite"
)

// Cache is a TTL cache stored in SQLite.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ storage.ResultCache = (*Cache)(nil)

// NewCache opens (or creates) the database at dbPath.
func NewCache(dbPath string, opts ...storage.Option) (storage.ResultCache, error) {
	return open(dbPath, opts...)
}

func open(dbPath string, opts ...storage.Option) (*Cache, error) {
	if dbPath == "" {
		return nil, storage.ErrPathRequired
	}
	o, err := storage.ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{
		db:     db,
		ttl:    o.TTL,
		now:    o.Clock,
		logger: o.Logger.With("cache", "sqlite"),
	}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_entries (
			key       TEXT PRIMARY KEY,
			results   TEXT NOT NULL,
			stored_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Get returns the cached results for query/provider if they are still valid.
func (c *Cache) Get(ctx context.Context, query, provider string) ([]core.SearchResult, bool, error) {
	var (
		payload  string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT results, stored_at FROM cache_entries WHERE key = ?`,
		core.CacheKey(query, provider),
	).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	entry := core.CacheEntry{Timestamp: time.Unix(0, storedAt)}
	if entry.Expired(c.now(), c.ttl) {
		return nil, false, nil
	}

	results, err := storage.UnmarshalResults([]byte(payload))
	if err != nil {
		c.logger.Warn("discarding unreadable cache entry", "provider", provider, "err", err)
		return nil, false, nil
	}
	return results, true, nil
}

// Set upserts results for query/provider.
func (c *Cache) Set(ctx context.Context, query, provider string, results []core.SearchResult) error {
	payload, err := storage.MarshalResults(results)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, results, stored_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			results = excluded.results,
			stored_at = excluded.stored_at
	`, core.CacheKey(query, provider), string(payload), c.now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear deletes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
