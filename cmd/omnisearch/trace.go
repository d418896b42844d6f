package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/search"
)

// traceMonitor writes one line per fan-out event.
type traceMonitor struct {
	mu      sync.Mutex
	w       io.Writer
	queryID string
	start   time.Time
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func newTraceMonitor(w io.Writer) *traceMonitor {
	return &traceMonitor{w: w}
}

func (m *traceMonitor) printf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.queryID
	if len(id) > 8 {
		id = id[:8]
	}
	fmt.Fprintf(m.w, "[%s] "+format+"\n", append([]any{id}, args...)...)
}

func (m *traceMonitor) Start(queryID, query string, providers []string) {
	m.mu.Lock()
	m.queryID = queryID
	m.start = time.Now()
	m.mu.Unlock()
	m.printf("query %q -> %v", query, providers)
}

func (m *traceMonitor) CacheHit(provider string, results []core.SearchResult) {
	m.printf("%s: cache hit (%d results)", provider, len(results))
}

func (m *traceMonitor) CacheMiss(provider string) {
	m.printf("%s: cache miss", provider)
}

func (m *traceMonitor) ProviderDone(provider string, results []core.SearchResult, elapsed time.Duration) {
	m.printf("%s: %d results in %s", provider, len(results), elapsed.Round(time.Millisecond))
}

func (m *traceMonitor) ProviderFailed(provider string, err error) {
	m.printf("%s: failed: %v", provider, err)
}

func (m *traceMonitor) Finish(results map[string][]core.SearchResult) {
	total := 0
	for _, r := range results {
		total += len(r)
	}
	m.printf("done: %d results from %d providers in %s", total, len(results), time.Since(m.start).Round(time.Millisecond))
}
