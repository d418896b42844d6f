package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHub_Search(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"total_count":2,"items":[
			{"full_name":"rust-lang/rust","description":"Empowering everyone","html_url":"https://github.com/rust-lang/rust","stargazers_count":95000},
			{"full_name":"tokio-rs/tokio","description":null,"html_url":"https://github.com/tokio-rs/tokio","stargazers_count":500}
		]}`))
	}))
	defer server.Close()

	p, err := NewGitHub(GitHubConfig{BaseURL: server.URL, Token: "ghp_test"})
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "rust", 10)
	require.NoError(t, err)

	assert.Equal(t, "rust", gotQuery.Get("q"))
	assert.Equal(t, "stars", gotQuery.Get("sort"))
	assert.Equal(t, "desc", gotQuery.Get("order"))
	assert.Equal(t, "10", gotQuery.Get("per_page"))
	assert.Equal(t, "Bearer ghp_test", gotAuth)

	require.Len(t, results, 2)
	assert.Equal(t, "rust-lang/rust - Empowering everyone", results[0].Title)
	assert.Equal(t, "https://github.com/rust-lang/rust", results[0].URL)
	assert.Equal(t, "Empowering everyone", results[0].Snippet)
	assert.Equal(t, "GitHub", results[0].Source)
	assert.InDelta(t, 95.0, results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.5, results[1].RelevanceScore, 1e-9)
	assert.Equal(t, "tokio-rs/tokio - ", results[1].Title)
}

func TestGitHub_NoTokenNoAuthHeader(t *testing.T) {
	var hasAuth bool
	var gotPerPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		gotPerPage = r.URL.Query().Get("per_page")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	p, err := NewGitHub(GitHubConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "q", 99)
	require.NoError(t, err)
	assert.False(t, hasAuth)
	assert.Equal(t, "30", gotPerPage)
}

func TestGitHub_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	p, err := NewGitHub(GitHubConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "q", 5)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}
