package provider

import (
	"os"
	"strings"
)

// Environment variables carrying provider credentials.
const (
	EnvBraveAPIKey      = "BRAVE_API_KEY"
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvStackExchangeKey = "STACKEXCHANGE_KEY"
)

// ApplyEnvDefaults fills empty credentials from environment variables.
// Values already present in cfg win over the environment.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Brave.APIKey = envOr(cfg.Brave.APIKey, os.Getenv(EnvBraveAPIKey))
	cfg.GitHub.Token = envOr(cfg.GitHub.Token, os.Getenv(EnvGitHubToken))
	cfg.StackOverflow.Key = envOr(cfg.StackOverflow.Key, os.Getenv(EnvStackExchangeKey))
	return cfg
}

func envOr(existing, value string) string {
	if strings.TrimSpace(existing) != "" {
		return existing
	}
	return strings.TrimSpace(value)
}
