package storage

import (
	"context"

	"github.com/poiesic/omnisearch/core"
)

// ResultCache stores provider responses keyed by (query, provider).
// Implementations must be thread-safe and support concurrent access.
type ResultCache interface {
	// Get returns the cached results for a query/provider pair.
	// The bool is true only when an entry exists and is within the validity window.
	// An entry holding zero results is still a hit.
	Get(ctx context.Context, query, provider string) ([]core.SearchResult, bool, error)

	// Set stores results for a query/provider pair, replacing any existing entry
	// and stamping it with the current time.
	Set(ctx context.Context, query, provider string, results []core.SearchResult) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
