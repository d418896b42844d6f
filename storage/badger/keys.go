package badger

import "github.com/poiesic/omnisearch/core"

// Key prefixes for different data types
const (
	cacheEntryPrefix = "cache:"
)

// makeCacheKey generates the key for a query/provider entry.
// Format: cache:<digest>
func makeCacheKey(query, provider string) []byte {
	digest := core.CacheKey(query, provider)
	buf := make([]byte, 0, len(cacheEntryPrefix)+len(digest))
	buf = append(buf, cacheEntryPrefix...)
	return append(buf, digest...)
}
