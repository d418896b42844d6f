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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/omnisearch/core"
)

// MarshalEntry serializes a CacheEntry to its JSON form.
func MarshalEntry(entry *core.CacheEntry) ([]byte, error) {
	data, err := json.Marshal(normalize(entry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalEntry deserializes a CacheEntry from JSON.
func UnmarshalEntry(data []byte) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	if entry.Results == nil {
		entry.Results = []core.SearchResult{}
	}
	return &entry, nil
}

// MarshalCacheEntry serializes a CacheEntry to its MUS binary form.
func MarshalCacheEntry(entry *core.CacheEntry) []byte {
	buf := make([]byte, core.CacheEntryMUS.Size(*entry))
	core.CacheEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCacheEntry deserializes a CacheEntry from its MUS binary form.
// Trailing bytes are treated as corruption.
func UnmarshalCacheEntry(data []byte) (*core.CacheEntry, error) {
	decoded, n, err := core.CacheEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &decoded, nil
}

// MarshalResults serializes a result list, writing an empty list as [] rather than null.
func MarshalResults(results []core.SearchResult) ([]byte, error) {
	if results == nil {
		results = []core.SearchResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalResults deserializes a result list.
func UnmarshalResults(data []byte) ([]core.SearchResult, error) {
	results := []core.SearchResult{}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	if results == nil {
		results = []core.SearchResult{}
	}
	return results, nil
}

func normalize(entry *core.CacheEntry) *core.CacheEntry {
	if entry.Results != nil {
		return entry
	}
	return &core.CacheEntry{Results: []core.SearchResult{}, Timestamp: entry.Timestamp}
}
