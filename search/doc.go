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


// Package search provides the orchestrator that fans a query out to
// providers and aggregates what comes back.
//
// For every requested provider the Orchestrator consults the result cache
// first. A hit is served without network access; a miss starts one goroutine
// that calls the provider and writes a successful response back to the cache.
// All goroutines are joined before aggregation, so callers never observe
// partial results. A provider that errors or panics contributes an empty list
// and is never cached.
//
// Results can be returned per provider (Search) or combined (CombiFetch).
// Combined mode flattens results in requested order, prefixes each Source
// with the title-cased provider name, and stable-sorts by RelevanceScore
// descending. Scores are used as the providers report them. They are not on
// a common scale, so the combined order is a heuristic.
//
// FolderFetch delegates to the local content searcher. History keeps the most
// recent queries in memory.
package search
