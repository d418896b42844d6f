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


package local

import (
	"cmp"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/omnisearch/core"
)

// Source is the label stamped on every local hit.
const Source = "Local Files"

// DefaultExtensions is the allow-list of scanned file extensions.
var DefaultExtensions = []string{".txt", ".md", ".py", ".js", ".html", ".css", ".json"}

// Searcher scans a directory tree for files containing a query.
// Files are scored concurrently on a worker pool owned by the Searcher.
type Searcher struct {
	pool       *ants.Pool
	extensions map[string]struct{}
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithPoolSize sets the worker pool size for concurrent file scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithExtensions replaces the extension allow-list. Entries may omit the leading dot.
func WithExtensions(extensions ...string) Option {
	return func(s *Searcher) error {
		if len(extensions) == 0 {
			return ErrNoExtensions
		}
		s.extensions = extensionSet(extensions)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a Searcher.
func NewSearcher(opts ...Option) (*Searcher, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		pool:       pool,
		extensions: extensionSet(DefaultExtensions),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Release releases the worker pool.
// The searcher should not be used after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

type hit struct {
	path   string
	result core.SearchResult
}

// Search walks root and returns files whose text contains query, case-insensitively,
// best first and at most maxResults of them. A missing root, a root that is not a
// directory, or a blank query yields an empty result and no error.
func (s *Searcher) Search(ctx context.Context, query, root string, maxResults int) ([]core.SearchResult, error) {
	maxResults = core.NormalizeMaxResults(maxResults, core.DefaultMaxResults)
	if strings.TrimSpace(query) == "" {
		return []core.SearchResult{}, nil
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		s.logger.Debug("folder search root unavailable", "root", root, "err", err)
		return []core.SearchResult{}, nil
	}

	var (
		mu   sync.Mutex
		hits []hit
		wg   sync.WaitGroup
	)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !s.allowed(path) {
			return nil
		}

		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			result, ok := s.scoreFile(path, query)
			if !ok {
				return
			}
			mu.Lock()
			hits = append(hits, hit{path: path, result: result})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})
	wg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(b.result.RelevanceScore, a.result.RelevanceScore); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	results := make([]core.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results, nil
}

func (s *Searcher) allowed(path string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// scoreFile reads one file and scores it against query.
func (s *Searcher) scoreFile(path, query string) (core.SearchResult, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("skipping unreadable file", "path", path, "err", err)
		return core.SearchResult{}, false
	}

	m, ok := match(string(data), query)
	if !ok {
		return core.SearchResult{}, false
	}
	return core.NewSearchResult(
		"File: "+filepath.Base(path),
		"file://"+path,
		m.snippet,
		Source,
		m.score,
	), true
}

func extensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
