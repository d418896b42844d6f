package provider

import "fmt"

// NewDefaultRegistry builds a registry of the enabled built-in providers in
// DefaultOrder. Transport settings come from cfg; opts are applied after them.
func NewDefaultRegistry(cfg *Config, opts ...Option) (*Registry, error) {
	cfg = cfg.WithDefaults()

	shared := append([]Option{
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithRetry(cfg.MaxAttempts, cfg.RetryDelay),
	}, opts...)

	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, name := range DefaultOrder {
		if !cfg.Enabled(name) {
			continue
		}
		p, err := newBuiltin(name, cfg, shared)
		if err != nil {
			return nil, fmt.Errorf("creating %s provider: %w", name, err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func newBuiltin(name string, cfg *Config, opts []Option) (Provider, error) {
	switch name {
	case NameBrave:
		return NewBrave(cfg.Brave, opts...)
	case NameGitHub:
		return NewGitHub(cfg.GitHub, opts...)
	case NameWikipedia:
		return NewWikipedia(cfg.Wikipedia, opts...)
	case NameArxiv:
		return NewArxiv(cfg.Arxiv, opts...)
	case NameStackOverflow:
		return NewStackOverflow(cfg.StackOverflow, opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
