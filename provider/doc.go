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


// Package provider defines the Provider abstraction and the built-in
// content sources queried by the orchestrator.
//
// A Provider translates a query into one source's request shape and the
// response into core.SearchResult values. Each provider populates
// RelevanceScore from whatever signal its source exposes; the scales are
// not comparable across providers:
//
//   - brave:         the result's score field
//   - github:        stargazers / 1000
//   - wikipedia:     search score / 100
//   - arxiv:         a constant 0.8
//   - stackoverflow: question score / 10
//
// # Failure Semantics
//
// On transport failure, non-2xx status or a malformed payload, a provider
// logs a diagnostic and returns the error. It never panics. The orchestrator
// turns the error into an empty result list so one failing source never
// affects another.
//
// # Usage
//
//	registry, err := provider.NewDefaultRegistry(cfg, provider.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gh, _ := registry.Get(provider.NameGitHub)
//	results, err := gh.Search(ctx, "rust ownership", 5)
//
// All providers are stateless per call and safe for concurrent use.
package provider
