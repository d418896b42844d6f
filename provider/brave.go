package provider

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/poiesic/omnisearch/core"
)

const (
	braveSource  = "Brave"
	braveMaxPage = 20
)

// Brave queries the Brave web search API.
type Brave struct {
	base
	cfg BraveConfig
}

var _ Provider = (*Brave)(nil)

// NewBrave creates a Brave provider. An empty BaseURL uses DefaultBraveURL.
func NewBrave(cfg BraveConfig, opts ...Option) (*Brave, error) {
	b, err := newBase(NameBrave, opts)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = orDefault(cfg.BaseURL, DefaultBraveURL)
	return &Brave{base: b, cfg: cfg}, nil
}

// Search returns web results scored by Brave's own score field.
func (p *Brave) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	count := pageSize(maxResults, braveMaxPage)
	searchURL, err := buildURL(p.cfg.BaseURL, map[string]string{
		"q":     query,
		"count": strconv.Itoa(count),
	})
	if err != nil {
		return nil, p.fail(query, err)
	}

	data, err := p.http.getBody(ctx, searchURL, map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": p.cfg.APIKey,
	})
	if err != nil {
		return nil, p.fail(query, err)
	}

	var resp struct {
		Web struct {
			Results []struct {
				Title       string  `json:"title"`
				URL         string  `json:"url"`
				Description string  `json:"description"`
				Score       float64 `json:"score"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, p.fail(query, malformed(err))
	}

	items := resp.Web.Results
	if len(items) > count {
		items = items[:count]
	}
	results := make([]core.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, core.NewSearchResult(
			strings.TrimSpace(item.Title),
			item.URL,
			htmlToText(item.Description),
			braveSource,
			item.Score,
		))
	}
	return results, nil
}
