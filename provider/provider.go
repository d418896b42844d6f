package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/omnisearch/core"
)

// Built-in provider names.
const (
	NameBrave         = "brave"
	NameGitHub        = "github"
	NameWikipedia     = "wikipedia"
	NameArxiv         = "arxiv"
	NameStackOverflow = "stackoverflow"
)

// DefaultOrder is the registration order of the built-in providers.
var DefaultOrder = []string{
	NameBrave,
	NameGitHub,
	NameWikipedia,
	NameArxiv,
	NameStackOverflow,
}

// Provider searches one external content source.
type Provider interface {
	// Name returns the registry key of the provider.
	Name() string

	// Search returns at most maxResults hits for query.
	Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error)
}

// Registry stores named providers and remembers their registration order.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
}

// NewRegistry creates a registry holding the given providers in order.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a provider. Names must be unique.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return ErrNilProvider
	}
	name := p.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}
	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
