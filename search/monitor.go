package search

import (
	"time"

	"github.com/poiesic/omnisearch/core"
)

// SearchMonitor provides hooks to observe the fan-out of a query.
// Provider hooks are called from the fan-out goroutines, so implementations
// must be safe for concurrent use.
type SearchMonitor interface {
	Start(queryID, query string, providers []string)
	CacheHit(provider string, results []core.SearchResult)
	CacheMiss(provider string)
	ProviderDone(provider string, results []core.SearchResult, elapsed time.Duration)
	ProviderFailed(provider string, err error)
	Finish(results map[string][]core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string, _ []string)                                 {}
func (n *noopMonitor) CacheHit(_ string, _ []core.SearchResult)                      {}
func (n *noopMonitor) CacheMiss(_ string)                                            {}
func (n *noopMonitor) ProviderDone(_ string, _ []core.SearchResult, _ time.Duration) {}
func (n *noopMonitor) ProviderFailed(_ string, _ error)                              {}
func (n *noopMonitor) Finish(_ map[string][]core.SearchResult)                       {}
