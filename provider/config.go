package provider

import "time"

// Default endpoints and transport settings.
const (
	DefaultBraveURL          = "https://api.search.brave.com/res/v1/web/search"
	DefaultGitHubURL         = "https://api.github.com/search/repositories"
	DefaultWikipediaURL      = "https://en.wikipedia.org/w/api.php"
	DefaultWikiSummaryURL    = "https://en.wikipedia.org/api/rest_v1/page/summary"
	DefaultWikiPageURL       = "https://en.wikipedia.org/wiki"
	DefaultArxivURL          = "http://export.arxiv.org/api/query"
	DefaultStackOverflowURL  = "https://api.stackexchange.com/2.3/search/advanced"
	DefaultStackOverflowSite = "stackoverflow"

	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (compatible; omnisearch/1.0)"
	DefaultMaxAttempts = 1
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Config controls the built-in providers and their shared transport.
type Config struct {
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`

	Brave         BraveConfig         `yaml:"brave"`
	GitHub        GitHubConfig        `yaml:"github"`
	Wikipedia     WikipediaConfig     `yaml:"wikipedia"`
	Arxiv         ArxivConfig         `yaml:"arxiv"`
	StackOverflow StackOverflowConfig `yaml:"stackoverflow"`
}

type BraveConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type GitHubConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

type WikipediaConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	SearchURL  string `yaml:"search_url"`
	SummaryURL string `yaml:"summary_url"`
	PageURL    string `yaml:"page_url"`
}

type ArxivConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

type StackOverflowConfig struct {
	Enabled *bool  `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Site    string `yaml:"site"`
}

// WithDefaults returns a copy with empty fields filled in.
func (c *Config) WithDefaults() *Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = DefaultMaxAttempts
	}
	if out.RetryDelay <= 0 {
		out.RetryDelay = DefaultRetryDelay
	}
	out.Brave.BaseURL = orDefault(out.Brave.BaseURL, DefaultBraveURL)
	out.GitHub.BaseURL = orDefault(out.GitHub.BaseURL, DefaultGitHubURL)
	out.Wikipedia.SearchURL = orDefault(out.Wikipedia.SearchURL, DefaultWikipediaURL)
	out.Wikipedia.SummaryURL = orDefault(out.Wikipedia.SummaryURL, DefaultWikiSummaryURL)
	out.Wikipedia.PageURL = orDefault(out.Wikipedia.PageURL, DefaultWikiPageURL)
	out.Arxiv.BaseURL = orDefault(out.Arxiv.BaseURL, DefaultArxivURL)
	out.StackOverflow.BaseURL = orDefault(out.StackOverflow.BaseURL, DefaultStackOverflowURL)
	out.StackOverflow.Site = orDefault(out.StackOverflow.Site, DefaultStackOverflowSite)
	return &out
}

// Enabled reports whether the named provider is switched on. Providers are on unless disabled.
func (c *Config) Enabled(name string) bool {
	if c == nil {
		return true
	}
	var flag *bool
	switch name {
	case NameBrave:
		flag = c.Brave.Enabled
	case NameGitHub:
		flag = c.GitHub.Enabled
	case NameWikipedia:
		flag = c.Wikipedia.Enabled
	case NameArxiv:
		flag = c.Arxiv.Enabled
	case NameStackOverflow:
		flag = c.StackOverflow.Enabled
	}
	return flag == nil || *flag
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
