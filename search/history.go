package search

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/omnisearch/core"
)

// DefaultHistorySize is the number of queries retained in memory.
const DefaultHistorySize = 50

// history is a bounded, thread-safe log of recent queries. Oldest entries are dropped first.
type history struct {
	mu      sync.Mutex
	entries []core.HistoryEntry
	limit   int
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

func (h *history) record(query string, providers []string, resultCount int) core.HistoryEntry {
	entry := core.HistoryEntry{
		ID:          uuid.NewString(),
		Query:       query,
		Providers:   append([]string(nil), providers...),
		Timestamp:   time.Now().UTC(),
		ResultCount: resultCount,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	return entry
}

// snapshot returns the retained entries, oldest first.
func (h *history) snapshot() []core.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]core.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
