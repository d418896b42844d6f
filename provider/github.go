package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/poiesic/omnisearch/core"
)

const (
	githubSource  = "GitHub"
	githubMaxPage = 30
)

// GitHub searches public repositories, most starred first.
type GitHub struct {
	base
	cfg GitHubConfig
}

var _ Provider = (*GitHub)(nil)

// NewGitHub creates a GitHub provider. An empty BaseURL uses DefaultGitHubURL.
func NewGitHub(cfg GitHubConfig, opts ...Option) (*GitHub, error) {
	b, err := newBase(NameGitHub, opts)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = orDefault(cfg.BaseURL, DefaultGitHubURL)
	return &GitHub{base: b, cfg: cfg}, nil
}

// Search returns repositories scored by stargazers / 1000.
func (p *GitHub) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	perPage := pageSize(maxResults, githubMaxPage)
	searchURL, err := buildURL(p.cfg.BaseURL, map[string]string{
		"q":        query,
		"sort":     "stars",
		"order":    "desc",
		"per_page": strconv.Itoa(perPage),
	})
	if err != nil {
		return nil, p.fail(query, err)
	}

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if p.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + p.cfg.Token
	}
	data, err := p.http.getBody(ctx, searchURL, headers)
	if err != nil {
		return nil, p.fail(query, err)
	}

	var resp struct {
		Items []struct {
			FullName        string `json:"full_name"`
			Description     string `json:"description"`
			HTMLURL         string `json:"html_url"`
			StargazersCount int    `json:"stargazers_count"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, p.fail(query, malformed(err))
	}

	items := resp.Items
	if len(items) > perPage {
		items = items[:perPage]
	}
	results := make([]core.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, core.NewSearchResult(
			item.FullName+" - "+item.Description,
			item.HTMLURL,
			item.Description,
			githubSource,
			float64(item.StargazersCount)/1000,
		))
	}
	return results, nil
}
