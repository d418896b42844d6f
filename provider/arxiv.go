package provider

import (
	"bytes"
	"context"
	"strconv"

	"github.com/mmcdole/gofeed"
	"github.com/poiesic/omnisearch/core"
)

const (
	arxivSource  = "ArXiv"
	arxivMaxPage = 20

	// arXiv exposes no relevance signal, so every paper gets the same score.
	arxivScore = 0.8
)

// Arxiv searches papers through the arXiv Atom API.
type Arxiv struct {
	base
	cfg ArxivConfig
}

var _ Provider = (*Arxiv)(nil)

// NewArxiv creates an arXiv provider. An empty BaseURL uses DefaultArxivURL.
func NewArxiv(cfg ArxivConfig, opts ...Option) (*Arxiv, error) {
	b, err := newBase(NameArxiv, opts)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = orDefault(cfg.BaseURL, DefaultArxivURL)
	return &Arxiv{base: b, cfg: cfg}, nil
}

// Search returns papers matching the quoted query in any field.
func (p *Arxiv) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	limit := pageSize(maxResults, arxivMaxPage)
	searchURL, err := buildURL(p.cfg.BaseURL, map[string]string{
		"search_query": `all:"` + query + `"`,
		"start":        "0",
		"max_results":  strconv.Itoa(limit),
		"sortBy":       "relevance",
		"sortOrder":    "descending",
	})
	if err != nil {
		return nil, p.fail(query, err)
	}

	data, err := p.http.getBody(ctx, searchURL, map[string]string{"Accept": "application/atom+xml"})
	if err != nil {
		return nil, p.fail(query, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, p.fail(query, malformed(err))
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}
	results := make([]core.SearchResult, 0, len(items))
	for _, item := range items {
		title := collapseSpace(item.Title)
		if title == "" {
			title = "No Title"
		}
		summary := collapseSpace(item.Description)
		if summary == "" {
			summary = "No Summary"
		}
		link := item.GUID
		if link == "" {
			link = item.Link
		}
		results = append(results, core.NewSearchResult(title, link, summary, arxivSource, arxivScore))
	}
	return results, nil
}
