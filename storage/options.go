package storage

import (
	"log/slog"
	"time"

	"github.com/poiesic/omnisearch/core"
)

// Options holds the settings shared by every cache backend.
type Options struct {
	TTL    time.Duration
	Clock  func() time.Time
	Logger *slog.Logger
}

// Option configures a cache backend.
type Option func(*Options) error

// WithTTL sets the validity window of cached entries.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) error {
		if ttl <= 0 {
			return ErrInvalidTTL
		}
		o.TTL = ttl
		return nil
	}
}

// WithClock replaces the time source. Tests use it to simulate expiry.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) error {
		if clock != nil {
			o.Clock = clock
		}
		return nil
	}
}

// WithLogger sets the logger for cache diagnostics.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) error {
		if logger != nil {
			o.Logger = logger
		}
		return nil
	}
}

// ApplyOptions returns the defaults overlaid with opts.
func ApplyOptions(opts ...Option) (Options, error) {
	o := Options{
		TTL:    core.DefaultTTL,
		Clock:  time.Now,
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	return o, nil
}
