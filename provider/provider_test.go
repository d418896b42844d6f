package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/omnisearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	return nil, nil
}

func TestRegistry_Order(t *testing.T) {
	r, err := NewRegistry(stubProvider{"b"}, stubProvider{"a"}, stubProvider{"c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, r.Names())
	assert.Equal(t, 3, r.Len())

	p, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", p.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Errors(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.ErrorIs(t, r.Register(nil), ErrNilProvider)
	assert.ErrorIs(t, r.Register(stubProvider{""}), ErrEmptyName)

	require.NoError(t, r.Register(stubProvider{"x"}))
	assert.ErrorIs(t, r.Register(stubProvider{"x"}), ErrDuplicateProvider)
}

func TestRegistry_NamesIsCopy(t *testing.T) {
	r, err := NewRegistry(stubProvider{"a"})
	require.NoError(t, err)

	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a"}, r.Names())
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Run("all enabled", func(t *testing.T) {
		r, err := NewDefaultRegistry(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultOrder, r.Names())
	})

	t.Run("disabled providers are skipped", func(t *testing.T) {
		off := false
		cfg := &Config{}
		cfg.Brave.Enabled = &off
		cfg.Arxiv.Enabled = &off

		r, err := NewDefaultRegistry(cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{NameGitHub, NameWikipedia, NameStackOverflow}, r.Names())
	})

	t.Run("invalid retry setting", func(t *testing.T) {
		_, err := NewDefaultRegistry(&Config{}, WithRetry(0, time.Millisecond))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&Config{GitHub: GitHubConfig{BaseURL: "http://gh.local"}}).WithDefaults()

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, "http://gh.local", cfg.GitHub.BaseURL)
	assert.Equal(t, DefaultBraveURL, cfg.Brave.BaseURL)
	assert.Equal(t, DefaultStackOverflowSite, cfg.StackOverflow.Site)
}

func TestApplyEnvDefaults(t *testing.T) {
	t.Setenv(EnvBraveAPIKey, " brave-key ")
	t.Setenv(EnvGitHubToken, "env-token")
	t.Setenv(EnvStackExchangeKey, "se-key")

	cfg := ApplyEnvDefaults(&Config{GitHub: GitHubConfig{Token: "file-token"}})

	assert.Equal(t, "brave-key", cfg.Brave.APIKey)
	assert.Equal(t, "file-token", cfg.GitHub.Token, "configured value wins over env")
	assert.Equal(t, "se-key", cfg.StackOverflow.Key)
}

func TestFetcher_UserAgentAndHeaders(t *testing.T) {
	var gotUA, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotToken = r.Header.Get("X-Token")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s, err := applyOptions([]Option{WithUserAgent("omnisearch-test")})
	require.NoError(t, err)
	f := newFetcher(s, s.logger)

	body, err := f.getBody(context.Background(), server.URL, map[string]string{"X-Token": "t", "X-Empty": ""})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "omnisearch-test", gotUA)
	assert.Equal(t, "t", gotToken)
}

func TestFetcher_Retry(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		attempts  int
		wantCalls int32
		wantErr   bool
	}{
		{name: "recovers after 503", statuses: []int{503, 200}, attempts: 3, wantCalls: 2},
		{name: "recovers after 429", statuses: []int{429, 429, 200}, attempts: 3, wantCalls: 3},
		{name: "gives up after max attempts", statuses: []int{500, 500, 500}, attempts: 2, wantCalls: 2, wantErr: true},
		{name: "4xx is not retried", statuses: []int{404, 200}, attempts: 3, wantCalls: 1, wantErr: true},
		{name: "single attempt by default", statuses: []int{500, 200}, attempts: 1, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				w.WriteHeader(tt.statuses[n-1])
				_, _ = w.Write([]byte("body"))
			}))
			defer server.Close()

			s, err := applyOptions([]Option{WithRetry(tt.attempts, time.Millisecond)})
			require.NoError(t, err)
			f := newFetcher(s, s.logger)

			_, err = f.getBody(context.Background(), server.URL, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := defaultSettings()
	err := retryWithBackoff(ctx, s.logger, func() error { return errors.New("boom") }, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusError(t *testing.T) {
	err := error(&StatusError{Code: 502, Body: "bad gateway"})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, "http 502: bad gateway", err.Error())
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "Use a <b>Box</b> here", htmlToText("<p>Use a &lt;b&gt;Box&lt;/b&gt;\n here</p>"))
	assert.Equal(t, "plain text", htmlToText("  plain \n text "))
	assert.Equal(t, "rust ownership rules", htmlToText(`<span class="searchmatch">rust</span> ownership rules`))

	assert.Equal(t, "short", truncateRunes("short", 200))
	assert.Equal(t, "héé...", truncateRunes("héééé", 3))

	assert.Equal(t, 20, pageSize(50, 20))
	assert.Equal(t, 5, pageSize(5, 20))
	assert.Equal(t, core.DefaultMaxResults, pageSize(0, 20))
}
