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


// Package omnisearch wires the result cache, providers, local searcher and
// orchestrator into a single Engine.
package omnisearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/omnisearch/config"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/local"
	"github.com/poiesic/omnisearch/provider"
	"github.com/poiesic/omnisearch/search"
	"github.com/poiesic/omnisearch/storage"
	"github.com/poiesic/omnisearch/storage/badger"
	"github.com/poiesic/omnisearch/storage/file"
	"github.com/poiesic/omnisearch/storage/sqlite"
)

type Engine struct {
	cfg          *config.Config
	cache        storage.ResultCache
	ownsCache    bool
	registry     *provider.Registry
	local        *local.Searcher
	orchestrator *search.Orchestrator
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger       *slog.Logger
	cache        storage.ResultCache
	providers    []provider.Provider
	providerOpts []provider.Option
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCache uses an existing cache instead of opening the configured backend.
// The caller keeps ownership of it.
func WithCache(cache storage.ResultCache) EngineOption {
	return func(o *engineOptions) {
		o.cache = cache
	}
}

// WithProviders registers the given providers instead of the built-in ones.
func WithProviders(providers ...provider.Provider) EngineOption {
	return func(o *engineOptions) {
		o.providers = providers
	}
}

// WithProviderOptions passes extra options to every built-in provider.
func WithProviderOptions(opts ...provider.Option) EngineOption {
	return func(o *engineOptions) {
		o.providerOpts = append(o.providerOpts, opts...)
	}
}

// NewEngine builds an Engine from cfg. A nil cfg means config.DefaultConfig().
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		cache:  options.cache,
		logger: logger,
	}

	if e.cache == nil {
		cache, err := OpenCache(cfg.Cache, logger)
		if err != nil {
			return nil, err
		}
		e.cache = cache
		e.ownsCache = true
	}

	registry, err := newRegistry(cfg, options, logger)
	if err != nil {
		e.closeCache()
		return nil, err
	}
	e.registry = registry

	localOpts := []local.Option{
		local.WithExtensions(cfg.Local.Extensions...),
		local.WithLogger(logger),
	}
	if cfg.Local.PoolSize > 0 {
		localOpts = append(localOpts, local.WithPoolSize(cfg.Local.PoolSize))
	}
	e.local, err = local.NewSearcher(localOpts...)
	if err != nil {
		e.closeCache()
		return nil, err
	}

	e.orchestrator, err = search.NewOrchestrator(registry, e.cache,
		search.WithLogger(logger),
		search.WithHistorySize(cfg.HistorySize),
		search.WithLocalSearcher(e.local),
	)
	if err != nil {
		e.local.Release()
		e.closeCache()
		return nil, err
	}

	logger.Debug("engine ready",
		"cache_backend", cfg.Cache.Backend,
		"cache_path", cfg.Cache.Path,
		"providers", registry.Names())
	return e, nil
}

// OpenCache opens the configured cache backend.
func OpenCache(cfg config.CacheConfig, logger *slog.Logger) (storage.ResultCache, error) {
	opts := []storage.Option{
		storage.WithTTL(cfg.TTL),
		storage.WithLogger(logger),
	}
	switch cfg.Backend {
	case config.BackendFile, "":
		return file.NewCache(cfg.Path, opts...)
	case config.BackendBadger:
		return badger.NewCache(cfg.Path, opts...)
	case config.BackendSQLite:
		return sqlite.NewCache(cfg.Path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

func newRegistry(cfg *config.Config, options *engineOptions, logger *slog.Logger) (*provider.Registry, error) {
	if len(options.providers) > 0 {
		return provider.NewRegistry(options.providers...)
	}
	opts := append([]provider.Option{provider.WithLogger(logger)}, options.providerOpts...)
	return provider.NewDefaultRegistry(&cfg.Providers, opts...)
}

func (e *Engine) closeCache() error {
	if !e.ownsCache {
		return nil
	}
	return e.cache.Close()
}

// Close releases the worker pool and closes the cache if the engine opened it.
func (e *Engine) Close() error {
	e.orchestrator.Close()
	e.local.Release()
	if err := e.closeCache(); err != nil {
		e.logger.Error("error closing cache", "err", err)
		return err
	}
	return nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Orchestrator exposes the underlying orchestrator for monitored searches.
func (e *Engine) Orchestrator() *search.Orchestrator {
	return e.orchestrator
}

// Providers returns the registered provider names.
func (e *Engine) Providers() []string {
	return e.orchestrator.Providers()
}

func (e *Engine) Search(ctx context.Context, query string, providers []string, maxResults int) (map[string][]core.SearchResult, error) {
	return e.orchestrator.Search(ctx, query, providers, maxResults)
}

func (e *Engine) CombiFetch(ctx context.Context, query string, providers []string, maxResults int) ([]core.SearchResult, error) {
	return e.orchestrator.CombiFetch(ctx, query, providers, maxResults)
}

func (e *Engine) FolderFetch(ctx context.Context, query, root string, maxResults int) ([]core.SearchResult, error) {
	return e.orchestrator.FolderFetch(ctx, query, root, maxResults)
}

func (e *Engine) History() []core.HistoryEntry {
	return e.orchestrator.History()
}

func (e *Engine) ClearCache(ctx context.Context) error {
	return e.orchestrator.ClearCache(ctx)
}

// Status reports provider health. It performs live requests.
func (e *Engine) Status(ctx context.Context) map[string]bool {
	return e.orchestrator.Status(ctx)
}
