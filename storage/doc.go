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


// Package storage provides the result cache abstraction for omnisearch.
//
// This package defines the ResultCache interface that decouples cache
// persistence from the orchestrator. Three backends implement it:
//
//   - file: a single JSON document on disk (the default)
//   - badger: an embedded BadgerDB instance with MUS-encoded values and native key TTLs
//   - sqlite: a single-table SQLite database
//
// # Constructor Return Type Pattern
//
// Backend constructors return the storage.ResultCache interface:
//
//	cache, err := file.NewCache(path)  // returns storage.ResultCache
//
// Internal helpers may return concrete types since they're only used within
// the implementation package.
//
// # Validity Window
//
// Every entry carries the time it was written. Get reports a hit only while
// the entry is younger than the configured TTL (core.DefaultTTL unless
// overridden). Expired entries are ignored, not deleted; Clear is the only
// operation that removes entries.
//
// # Usage
//
//	cache, err := file.NewCache("/path/to/search_cache.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	results, ok, err := cache.Get(ctx, "rust ownership", "github")
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryCache()
//
// # Thread Safety
//
// All cache implementations must be safe for concurrent use by the
// orchestrator's fan-out goroutines.
package storage
