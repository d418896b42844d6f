package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

const (
	// DefaultTTL is the validity window of a cached provider response.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxResults applies when a caller asks for zero or fewer results.
	DefaultMaxResults = 10
)

// CacheKey derives a deterministic cache key for a (query, provider) pair using
// BLAKE2b hashing. Identical pairs always produce identical keys.
func CacheKey(query, provider string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(query + "_" + provider))
	return hex.EncodeToString(h.Sum(nil))
}

// SearchResult is a single normalized hit returned by a provider or the local searcher.
type SearchResult struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`             // Provider link or file:// reference for local hits
	Snippet        string    `json:"snippet"`         // Bounded excerpt
	Source         string    `json:"source"`          // Provider label, relabelled by combined search
	RelevanceScore float64   `json:"relevance_score"` // Provider-local scale, not comparable across providers
	Timestamp      time.Time `json:"timestamp"`       // When the result was constructed
}

// NewSearchResult creates a result stamped with the current time.
func NewSearchResult(title, url, snippet, source string, score float64) SearchResult {
	return SearchResult{
		Title:          title,
		URL:            url,
		Snippet:        snippet,
		Source:         source,
		RelevanceScore: score,
		Timestamp:      time.Now().UTC(),
	}
}

// String renders the result as "[source] title - url".
func (r SearchResult) String() string {
	return "[" + r.Source + "] " + r.Title + " - " + r.URL
}

// CacheEntry is the persisted form of one provider response.
type CacheEntry struct {
	Results   []SearchResult `json:"results"`
	Timestamp time.Time      `json:"timestamp"`
}

// Expired reports whether the entry is at least ttl old at the given instant.
func (e *CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) >= ttl
}

// HistoryEntry records one orchestrated query.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Providers   []string  `json:"providers"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count"`
}
