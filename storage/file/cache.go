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


// Package file implements storage.ResultCache as a single JSON document.
//
// The document maps cache keys to {results, timestamp} entries and is read
// wholesale on every lookup. Writes load the document, replace one key, and
// rewrite it through a temporary file and rename. A mutex spans the whole
// load-modify-store cycle, so concurrent writers within one process never lose
// updates. Writers in separate processes remain last-writer-wins.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/storage"
)

// Cache is a TTL cache persisted as one JSON file.
type Cache struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ storage.ResultCache = (*Cache)(nil)

// NewCache opens a file cache at path, creating the parent directory if needed.
// The file itself is created on the first write.
func NewCache(path string, opts ...storage.Option) (storage.ResultCache, error) {
	return newCache(path, opts...)
}

func newCache(path string, opts ...storage.Option) (*Cache, error) {
	if path == "" {
		return nil, storage.ErrPathRequired
	}
	o, err := storage.ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return &Cache{
		path:   path,
		ttl:    o.TTL,
		now:    o.Clock,
		logger: o.Logger.With("cache", "file"),
	}, nil
}

// Get returns the cached results for query/provider if they are still valid.
func (c *Cache) Get(ctx context.Context, query, provider string) ([]core.SearchResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, storage.ErrStorageClosed
	}

	entries := c.load()
	entry, ok := entries[core.CacheKey(query, provider)]
	if !ok || entry == nil {
		return nil, false, nil
	}
	if entry.Expired(c.now(), c.ttl) {
		return nil, false, nil
	}
	if entry.Results == nil {
		return []core.SearchResult{}, true, nil
	}
	return entry.Results, true, nil
}

// Set stores results for query/provider and rewrites the file.
func (c *Cache) Set(ctx context.Context, query, provider string, results []core.SearchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return storage.ErrStorageClosed
	}

	if results == nil {
		results = []core.SearchResult{}
	}
	entries := c.load()
	entries[core.CacheKey(query, provider)] = &core.CacheEntry{
		Results:   results,
		Timestamp: c.now().UTC(),
	}
	return c.store(entries)
}

// Clear resets the file to an empty document.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return storage.ErrStorageClosed
	}
	return c.store(map[string]*core.CacheEntry{})
}

// Close marks the cache closed. The file is left in place.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// load reads the whole document. A missing or unreadable file yields an empty map.
func (c *Cache) load() map[string]*core.CacheEntry {
	entries := map[string]*core.CacheEntry{}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("failed to read cache file", "path", c.path, "err", err)
		}
		return entries
	}
	if len(data) == 0 {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("cache file is corrupt, treating as empty", "path", c.path, "err", err)
		return map[string]*core.CacheEntry{}
	}
	return entries
}

func (c *Cache) store(entries map[string]*core.CacheEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
