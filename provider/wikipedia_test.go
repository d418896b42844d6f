package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWikipediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "3", q.Get("srlimit"))
		_, _ = w.Write([]byte(`{"query":{"search":[
			{"title":"Rust (programming language)","pageid":1,"snippet":"<span class=\"searchmatch\">Rust</span> is a language","score":250},
			{"title":"Ownership","pageid":2,"snippet":"<span class=\"searchmatch\">Ownership</span> is the state","score":80},
			{"title":"Broken Page","pageid":3,"snippet":"A <b>broken</b> page","score":10}
		]}}`))
	})
	mux.HandleFunc("/summary/", func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimPrefix(r.URL.Path, "/summary/")
		switch slug {
		case "Rust_(programming_language)":
			_, _ = w.Write([]byte(`{"extract":"Rust is a general-purpose language.","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Rust_(programming_language)"}}}`))
		case "Ownership":
			_, _ = w.Write([]byte(`{"extract":"Ownership is the state of having property.","content_urls":{"desktop":{"page":""}}}`))
		default:
			http.NotFound(w, r)
		}
	})
	return httptest.NewServer(mux)
}

func TestWikipedia_Search(t *testing.T) {
	server := newWikipediaServer(t)
	defer server.Close()

	p, err := NewWikipedia(WikipediaConfig{
		SearchURL:  server.URL + "/w/api.php",
		SummaryURL: server.URL + "/summary/",
		PageURL:    "https://en.wikipedia.org/wiki",
	})
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "rust", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Order follows the search ranking even though summaries resolve concurrently.
	assert.Equal(t, "Rust (programming language)", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Rust_(programming_language)", results[0].URL)
	assert.Equal(t, "Rust is a general-purpose language.", results[0].Snippet)
	assert.InDelta(t, 2.5, results[0].RelevanceScore, 1e-9)
	assert.Equal(t, "Wikipedia", results[0].Source)

	assert.Equal(t, "Ownership", results[1].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Ownership", results[1].URL, "empty summary link is synthesized")
	assert.InDelta(t, 0.8, results[1].RelevanceScore, 1e-9)

	assert.Equal(t, "Broken Page", results[2].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Broken_Page", results[2].URL)
	assert.Equal(t, "A broken page", results[2].Snippet, "fallback uses the search snippet without markup")
	assert.InDelta(t, 0.1, results[2].RelevanceScore, 1e-9)
}

func TestWikipedia_SearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	p, err := NewWikipedia(WikipediaConfig{SearchURL: server.URL, SummaryURL: server.URL})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "rust", 3)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestWikipedia_NoHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"batchcomplete":""}`))
	}))
	defer server.Close()

	p, err := NewWikipedia(WikipediaConfig{SearchURL: server.URL, SummaryURL: server.URL})
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "zzzzqqq", 3)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
