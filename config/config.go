// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads omnisearch settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/local"
	"github.com/poiesic/omnisearch/provider"
	"github.com/poiesic/omnisearch/search"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// EnvCachePath overrides the configured cache location.
const EnvCachePath = "OMNISEARCH_CACHE_PATH"

const appName = "omnisearch"

// ErrUnknownBackend is returned by Validate for an unsupported cache backend.
var ErrUnknownBackend = errors.New("config: unknown cache backend")

// CacheConfig selects and locates the result cache.
type CacheConfig struct {
	// Backend is one of "file", "badger" or "sqlite".
	// Default: "file"
	Backend string `yaml:"backend"`

	// Path is the cache file (file, sqlite) or directory (badger).
	// Empty means the XDG cache location for the backend.
	Path string `yaml:"path"`

	// TTL is how long a provider response stays valid.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`
}

// LocalConfig controls folder searches.
type LocalConfig struct {
	Extensions []string `yaml:"extensions"`

	// PoolSize is the number of file-scoring workers. Zero means half the CPUs.
	PoolSize int `yaml:"pool_size"`
}

// Config is the complete omnisearch configuration.
type Config struct {
	Cache       CacheConfig     `yaml:"cache"`
	HistorySize int             `yaml:"history_size"`
	Local       LocalConfig     `yaml:"local"`
	Providers   provider.Config `yaml:"providers"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithCacheBackend selects the cache backend.
func WithCacheBackend(backend string) Option {
	return func(c *Config) {
		c.Cache.Backend = backend
	}
}

// WithCachePath sets the cache location.
func WithCachePath(path string) Option {
	return func(c *Config) {
		c.Cache.Path = path
	}
}

// WithTTL sets the cache validity window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.Cache.TTL = ttl
	}
}

// WithHistorySize sets how many queries are remembered.
func WithHistorySize(size int) Option {
	return func(c *Config) {
		c.HistorySize = size
	}
}

// WithExtensions sets the file extensions scanned by folder searches.
func WithExtensions(extensions ...string) Option {
	return func(c *Config) {
		c.Local.Extensions = extensions
	}
}

// WithPoolSize sets the number of folder-search workers.
func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.Local.PoolSize = size
	}
}

// WithProviders replaces the provider settings.
func WithProviders(p provider.Config) Option {
	return func(c *Config) {
		c.Providers = p
	}
}

// DefaultConfig returns a Config with the file cache under the XDG cache directory
// and every built-in provider enabled.
func DefaultConfig() *Config {
	cfg := baseConfig()
	cfg.Normalize()
	return cfg
}

func baseConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     core.DefaultTTL,
		},
		HistorySize: search.DefaultHistorySize,
		Local: LocalConfig{
			Extensions: append([]string(nil), local.DefaultExtensions...),
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := baseConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Normalize()
	return cfg
}

// Normalize puts the configuration in canonical form and fills derived defaults.
func (c *Config) Normalize() {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath(c.Cache.Backend)
	}
	c.Providers = *c.Providers.WithDefaults()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
	if c.Cache.Path == "" {
		return errors.New("config: cache path is required")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("config: cache ttl must be positive")
	}
	if c.HistorySize <= 0 {
		return errors.New("config: history size must be positive")
	}
	if len(c.Local.Extensions) == 0 {
		return errors.New("config: at least one local extension is required")
	}
	if c.Local.PoolSize < 0 {
		return errors.New("config: local pool size cannot be negative")
	}
	return nil
}

// ApplyEnv fills provider credentials from the environment and honors EnvCachePath.
func (c *Config) ApplyEnv() {
	provider.ApplyEnvDefaults(&c.Providers)
	if path := strings.TrimSpace(os.Getenv(EnvCachePath)); path != "" {
		c.Cache.Path = path
	}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/omnisearch/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultCachePath is the XDG cache location for a backend.
func DefaultCachePath(backend string) string {
	dir := filepath.Join(xdg.CacheHome, appName)
	switch backend {
	case BackendBadger:
		return filepath.Join(dir, "badger")
	case BackendSQLite:
		return filepath.Join(dir, "search_cache.db")
	default:
		return filepath.Join(dir, "search_cache.json")
	}
}

// Load reads the YAML file at path over the defaults. An empty path means
// DefaultConfigPath; a missing file yields the defaults. Environment overrides
// are applied and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := baseConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
