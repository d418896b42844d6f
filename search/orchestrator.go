package search

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/local"
	"github.com/poiesic/omnisearch/provider"
	"github.com/poiesic/omnisearch/storage"
)

// statusQuery is the query sent to every provider by Status.
const statusQuery = "test"

// Orchestrator fans queries out to providers through the result cache.
type Orchestrator struct {
	registry  *provider.Registry
	cache     storage.ResultCache
	local     *local.Searcher
	ownsLocal bool
	history   *history
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithHistorySize sets how many queries History retains.
// Default is DefaultHistorySize.
func WithHistorySize(size int) Option {
	return func(o *Orchestrator) error {
		if size <= 0 {
			return ErrInvalidHistorySize
		}
		o.history = newHistory(size)
		return nil
	}
}

// WithLocalSearcher sets the searcher used by FolderFetch.
// The caller keeps ownership and must release it.
func WithLocalSearcher(searcher *local.Searcher) Option {
	return func(o *Orchestrator) error {
		if searcher != nil {
			o.local = searcher
		}
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(registry *provider.Registry, cache storage.ResultCache, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	o := &Orchestrator{
		registry: registry,
		cache:    cache,
		history:  newHistory(DefaultHistorySize),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.local == nil {
		searcher, err := local.NewSearcher(local.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		o.local = searcher
		o.ownsLocal = true
	}

	return o, nil
}

// Close releases the local searcher if the orchestrator created it.
// The cache is owned by the caller.
func (o *Orchestrator) Close() {
	if o.ownsLocal && o.local != nil {
		o.local.Release()
	}
}

// Providers returns the registered provider names in registration order.
func (o *Orchestrator) Providers() []string {
	return o.registry.Names()
}

// Search queries the named providers (all registered providers when names is empty)
// and returns their results keyed by provider name. The map has exactly one key per
// distinct requested name; providers that fail or are unknown map to an empty list.
func (o *Orchestrator) Search(ctx context.Context, query string, names []string, maxResults int) (map[string][]core.SearchResult, error) {
	return o.SearchWithMonitor(ctx, query, names, maxResults, nil)
}

// SearchWithMonitor is Search with callbacks at each stage of the fan-out.
func (o *Orchestrator) SearchWithMonitor(ctx context.Context, query string, names []string, maxResults int, monitor SearchMonitor) (map[string][]core.SearchResult, error) {
	r, err := o.run(ctx, query, names, maxResults, monitor)
	if err != nil {
		return nil, err
	}
	return r.byProvider(), nil
}

// CombiFetch queries the named providers and merges their results into one list.
// Each Source becomes "<Provider>: <Source>" with the provider name title-cased.
// The list is stable-sorted by RelevanceScore descending, as reported by each
// provider, and truncated to maxResults.
func (o *Orchestrator) CombiFetch(ctx context.Context, query string, names []string, maxResults int) ([]core.SearchResult, error) {
	return o.CombiFetchWithMonitor(ctx, query, names, maxResults, nil)
}

// CombiFetchWithMonitor is CombiFetch with callbacks at each stage of the fan-out.
func (o *Orchestrator) CombiFetchWithMonitor(ctx context.Context, query string, names []string, maxResults int, monitor SearchMonitor) ([]core.SearchResult, error) {
	maxResults = core.NormalizeMaxResults(maxResults, core.DefaultMaxResults)
	r, err := o.run(ctx, query, names, maxResults, monitor)
	if err != nil {
		return nil, err
	}
	return combine(r, maxResults), nil
}

// FolderFetch searches text files under root. A missing root yields an empty result.
func (o *Orchestrator) FolderFetch(ctx context.Context, query, root string, maxResults int) ([]core.SearchResult, error) {
	return o.local.Search(ctx, query, root, maxResults)
}

// History returns the most recent queries, oldest first.
func (o *Orchestrator) History() []core.HistoryEntry {
	return o.history.snapshot()
}

// ClearCache removes every cached provider response.
func (o *Orchestrator) ClearCache(ctx context.Context) error {
	if err := o.cache.Clear(ctx); err != nil {
		o.logger.Error("error clearing cache", "err", err)
		return err
	}
	return nil
}

// Status sends a one-result query to every registered provider concurrently,
// bypassing the cache. A provider is healthy when that query returns without
// error or panic. Transport errors and non-2xx responses count as unhealthy.
func (o *Orchestrator) Status(ctx context.Context) map[string]bool {
	names := o.registry.Names()
	healthy := make([]bool, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		p, _ := o.registry.Get(name)
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			_, err := safeSearch(ctx, p, statusQuery, 1)
			if err != nil {
				o.logger.Warn("provider health check failed", "provider", p.Name(), "err", err)
				return
			}
			healthy[i] = true
		}(i, p)
	}
	wg.Wait()

	status := make(map[string]bool, len(names))
	for i, name := range names {
		status[name] = healthy[i]
	}
	return status
}

// fanOut holds the per-provider slots of one query, in requested order.
type fanOut struct {
	names []string
	slots [][]core.SearchResult
}

func (r *fanOut) byProvider() map[string][]core.SearchResult {
	out := make(map[string][]core.SearchResult, len(r.names))
	for i, name := range r.names {
		out[name] = r.slots[i]
	}
	return out
}

func (r *fanOut) total() int {
	n := 0
	for _, s := range r.slots {
		n += len(s)
	}
	return n
}

// run performs the cache-first fan-out and records the query in history.
func (o *Orchestrator) run(ctx context.Context, query string, names []string, maxResults int, monitor SearchMonitor) (*fanOut, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	maxResults = core.NormalizeMaxResults(maxResults, core.DefaultMaxResults)
	names = o.resolveNames(names)

	queryID := uuid.NewString()
	logger := o.logger.With("query_id", queryID)
	logger.Debug("dispatching query", "query", query, "providers", names, "max_results", maxResults)
	monitor.Start(queryID, query, names)

	r := &fanOut{
		names: names,
		slots: make([][]core.SearchResult, len(names)),
	}

	var wg sync.WaitGroup
	for i, name := range names {
		p, ok := o.registry.Get(name)
		if !ok {
			logger.Warn("unknown provider requested", "provider", name)
			r.slots[i] = []core.SearchResult{}
			monitor.ProviderFailed(name, fmt.Errorf("unknown provider %q", name))
			continue
		}

		cached, hit, err := o.cache.Get(ctx, query, name)
		if err != nil {
			logger.Warn("error reading cache", "provider", name, "err", err)
		}
		if hit {
			logger.Debug("cache hit", "provider", name, "results", len(cached))
			if len(cached) > maxResults {
				cached = cached[:maxResults]
			}
			r.slots[i] = cached
			monitor.CacheHit(name, cached)
			continue
		}
		monitor.CacheMiss(name)

		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			r.slots[i] = o.fetch(ctx, logger, query, p, maxResults, monitor)
		}(i, p)
	}
	wg.Wait()

	monitor.Finish(r.byProvider())
	o.history.record(query, names, r.total())
	return r, nil
}

// fetch calls one provider. Failures yield an empty list and are not cached.
func (o *Orchestrator) fetch(ctx context.Context, logger *slog.Logger, query string, p provider.Provider, maxResults int, monitor SearchMonitor) []core.SearchResult {
	name := p.Name()
	start := time.Now()

	results, err := safeSearch(ctx, p, query, maxResults)
	if err != nil {
		logger.Warn("provider failed", "provider", name, "err", err)
		monitor.ProviderFailed(name, err)
		return []core.SearchResult{}
	}
	if results == nil {
		results = []core.SearchResult{}
	}
	elapsed := time.Since(start)
	logger.Debug("provider returned", "provider", name, "results", len(results), "elapsed", elapsed)
	monitor.ProviderDone(name, results, elapsed)

	if err := o.cache.Set(ctx, query, name, results); err != nil {
		logger.Error("error writing cache", "provider", name, "err", err)
	}
	return results
}

// resolveNames returns the registered names when requested is empty,
// otherwise requested with duplicates removed.
func (o *Orchestrator) resolveNames(requested []string) []string {
	if len(requested) == 0 {
		return o.registry.Names()
	}
	seen := make(map[string]struct{}, len(requested))
	names := make([]string, 0, len(requested))
	for _, name := range requested {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// safeSearch calls p.Search and converts a panic into an error.
func safeSearch(ctx context.Context, p provider.Provider, query string, maxResults int) (results []core.SearchResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = fmt.Errorf("%w: %s: %v", ErrProviderPanic, p.Name(), rec)
		}
	}()
	return p.Search(ctx, query, maxResults)
}

// combine flattens the slots in requested order, relabels sources and ranks by raw score.
func combine(r *fanOut, maxResults int) []core.SearchResult {
	combined := make([]core.SearchResult, 0, r.total())
	for i, name := range r.names {
		label := titleCase(name)
		for _, result := range r.slots[i] {
			result.Source = label + ": " + result.Source
			combined = append(combined, result)
		}
	}

	slices.SortStableFunc(combined, func(a, b core.SearchResult) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})

	if len(combined) > maxResults {
		combined = combined[:maxResults]
	}
	return combined
}
