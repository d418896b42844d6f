package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/omnisearch/core"
)

const (
	wikipediaSource  = "Wikipedia"
	wikipediaMaxPage = 10
)

// Wikipedia runs a full-text search and then fetches a summary for every hit.
// Summaries are fetched concurrently; result order follows the search ranking.
type Wikipedia struct {
	base
	cfg WikipediaConfig
}

var _ Provider = (*Wikipedia)(nil)

// NewWikipedia creates a Wikipedia provider. Empty URLs use the English Wikipedia defaults.
func NewWikipedia(cfg WikipediaConfig, opts ...Option) (*Wikipedia, error) {
	b, err := newBase(NameWikipedia, opts)
	if err != nil {
		return nil, err
	}
	cfg.SearchURL = orDefault(cfg.SearchURL, DefaultWikipediaURL)
	cfg.SummaryURL = strings.TrimRight(orDefault(cfg.SummaryURL, DefaultWikiSummaryURL), "/")
	cfg.PageURL = strings.TrimRight(orDefault(cfg.PageURL, DefaultWikiPageURL), "/")
	return &Wikipedia{base: b, cfg: cfg}, nil
}

type wikiHit struct {
	Title   string  `json:"title"`
	PageID  int     `json:"pageid"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Search returns articles scored by the search score / 100.
func (p *Wikipedia) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	limit := pageSize(maxResults, wikipediaMaxPage)
	searchURL, err := buildURL(p.cfg.SearchURL, map[string]string{
		"action":   "query",
		"list":     "search",
		"srsearch": query,
		"srlimit":  strconv.Itoa(limit),
		"format":   "json",
	})
	if err != nil {
		return nil, p.fail(query, err)
	}

	data, err := p.http.getBody(ctx, searchURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, p.fail(query, err)
	}

	var resp struct {
		Query struct {
			Search []wikiHit `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, p.fail(query, malformed(err))
	}

	hits := resp.Query.Search
	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]core.SearchResult, len(hits))
	var wg sync.WaitGroup
	for i, hit := range hits {
		wg.Add(1)
		go func(i int, hit wikiHit) {
			defer wg.Done()
			results[i] = p.resolve(ctx, hit)
		}(i, hit)
	}
	wg.Wait()

	return results, nil
}

// resolve turns a search hit into a result using the page summary, or a
// synthesized page link and the search snippet when the summary is unavailable.
func (p *Wikipedia) resolve(ctx context.Context, hit wikiHit) core.SearchResult {
	score := hit.Score / 100
	slug := url.PathEscape(strings.ReplaceAll(hit.Title, " ", "_"))

	summary, err := p.summary(ctx, slug)
	if err != nil {
		p.logger.Warn("summary unavailable, using search snippet", "title", hit.Title, "err", err)
		return core.NewSearchResult(hit.Title, p.cfg.PageURL+"/"+slug, htmlToText(hit.Snippet), wikipediaSource, score)
	}

	pageURL := summary.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = p.cfg.PageURL + "/" + slug
	}
	return core.NewSearchResult(hit.Title, pageURL, summary.Extract, wikipediaSource, score)
}

type wikiSummary struct {
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (p *Wikipedia) summary(ctx context.Context, slug string) (*wikiSummary, error) {
	data, err := p.http.getBody(ctx, p.cfg.SummaryURL+"/"+slug, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}
	var s wikiSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, malformed(err)
	}
	return &s, nil
}
