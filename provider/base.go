package provider

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/omnisearch/core"
)

// base carries the pieces every built-in provider shares.
type base struct {
	name   string
	http   *fetcher
	logger *slog.Logger
}

func newBase(name string, opts []Option) (base, error) {
	s, err := applyOptions(opts)
	if err != nil {
		return base{}, err
	}
	logger := s.logger.With("provider", name)
	return base{
		name:   name,
		http:   newFetcher(s, logger),
		logger: logger,
	}, nil
}

// Name returns the registry key of the provider.
func (b base) Name() string {
	return b.name
}

// fail logs a search failure and returns it wrapped with the provider name.
func (b base) fail(query string, err error) error {
	b.logger.Error("search failed", "query", query, "err", err)
	return fmt.Errorf("%s: %w", b.name, err)
}

// malformed wraps a decode error as ErrMalformedResponse.
func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}

// buildURL parses rawURL and sets params on its query string.
func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// pageSize clamps maxResults to the provider's per-request ceiling.
func pageSize(maxResults, ceiling int) int {
	maxResults = core.NormalizeMaxResults(maxResults, core.DefaultMaxResults)
	return min(maxResults, ceiling)
}

// htmlToText strips markup from an HTML fragment and collapses whitespace.
func htmlToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to limit runes, appending "..." when it was longer.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
