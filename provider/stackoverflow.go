package provider

import (
	"context"
	"encoding/json"
	"html"
	"strconv"

	"github.com/poiesic/omnisearch/core"
)

const (
	stackOverflowSource  = "StackOverflow"
	stackOverflowMaxPage = 20
	snippetRuneLimit     = 200
)

// StackOverflow searches questions through the Stack Exchange API.
type StackOverflow struct {
	base
	cfg StackOverflowConfig
}

var _ Provider = (*StackOverflow)(nil)

// NewStackOverflow creates a Stack Overflow provider. Empty fields use the public API defaults.
func NewStackOverflow(cfg StackOverflowConfig, opts ...Option) (*StackOverflow, error) {
	b, err := newBase(NameStackOverflow, opts)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = orDefault(cfg.BaseURL, DefaultStackOverflowURL)
	cfg.Site = orDefault(cfg.Site, DefaultStackOverflowSite)
	return &StackOverflow{base: b, cfg: cfg}, nil
}

// Search returns questions scored by vote score / 10.
func (p *StackOverflow) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	size := pageSize(maxResults, stackOverflowMaxPage)
	params := map[string]string{
		"order":    "desc",
		"sort":     "relevance",
		"q":        query,
		"site":     p.cfg.Site,
		"pagesize": strconv.Itoa(size),
		"filter":   "withbody",
	}
	if p.cfg.Key != "" {
		params["key"] = p.cfg.Key
	}
	searchURL, err := buildURL(p.cfg.BaseURL, params)
	if err != nil {
		return nil, p.fail(query, err)
	}

	data, err := p.http.getBody(ctx, searchURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, p.fail(query, err)
	}

	var resp struct {
		Items []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
			Body  string `json:"body"`
			Score int    `json:"score"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, p.fail(query, malformed(err))
	}

	items := resp.Items
	if len(items) > size {
		items = items[:size]
	}
	results := make([]core.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, core.NewSearchResult(
			html.UnescapeString(item.Title),
			item.Link,
			truncateRunes(htmlToText(item.Body), snippetRuneLimit),
			stackOverflowSource,
			float64(item.Score)/10,
		))
	}
	return results, nil
}
