// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/storage"
)

// Cache implements storage.ResultCache for BadgerDB.
//
// Entries are written with badger's native TTL so expired keys are
// garbage collected; the stored timestamp is also checked against the
// injected clock so expiry can be simulated.
type Cache struct {
	backend   *Backend
	ownsStore bool
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

var _ storage.ResultCache = (*Cache)(nil)

// NewCache opens a BadgerDB-backed cache in dirPath.
func NewCache(dirPath string, opts ...storage.Option) (storage.ResultCache, error) {
	if dirPath == "" {
		return nil, storage.ErrPathRequired
	}
	o, err := storage.ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	backend, err := OpenBackend(dirPath, false, o.Logger)
	if err != nil {
		return nil, err
	}
	return newCache(backend, true, o), nil
}

// NewCacheWithBackend creates a cache on an already opened backend.
// The caller keeps ownership of the backend.
func NewCacheWithBackend(backend *Backend, opts ...storage.Option) (*Cache, error) {
	o, err := storage.ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newCache(backend, false, o), nil
}

func newCache(backend *Backend, owns bool, o storage.Options) *Cache {
	return &Cache{
		backend:   backend,
		ownsStore: owns,
		ttl:       o.TTL,
		now:       o.Clock,
		logger:    o.Logger.With("cache", "badger"),
	}
}

// Get returns the cached results for query/provider if they are still valid.
func (c *Cache) Get(ctx context.Context, query, provider string) ([]core.SearchResult, bool, error) {
	if c.backend.IsClosed() {
		return nil, false, storage.ErrStorageClosed
	}

	var entry *core.CacheEntry
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(query, provider))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalCacheEntry(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		if errors.Is(err, storage.ErrSerializationFailed) {
			c.logger.Warn("discarding unreadable cache entry", "provider", provider, "err", err)
			return nil, false, nil
		}
		return nil, false, err
	}
	if entry == nil || entry.Expired(c.now(), c.ttl) {
		return nil, false, nil
	}
	return entry.Results, true, nil
}

// Set stores results for query/provider with badger's TTL.
func (c *Cache) Set(ctx context.Context, query, provider string, results []core.SearchResult) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	value := storage.MarshalCacheEntry(&core.CacheEntry{
		Results:   results,
		Timestamp: c.now().UTC(),
	})

	return c.backend.WithTx(func(tx *badger.Txn) error {
		e := badger.NewEntry(makeCacheKey(query, provider), value).WithTTL(c.ttl)
		if err := tx.SetEntry(e); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Clear drops every cache entry.
func (c *Cache) Clear(ctx context.Context) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	n, err := c.backend.DeletePrefix([]byte(cacheEntryPrefix))
	if err != nil {
		return err
	}
	c.logger.Debug("cache cleared", "entries", n)
	return nil
}

// Close closes the backend if the cache opened it.
func (c *Cache) Close() error {
	if !c.ownsStore || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
