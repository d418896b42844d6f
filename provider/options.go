package provider

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a provider's transport and logging.
type Option func(*settings) error

type settings struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func defaultSettings() *settings {
	return &settings{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default(),
	}
}

// WithHTTPClient replaces the HTTP client. The client's own timeout applies.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) error {
		s.client = client
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		s.timeout = timeout
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) error {
		if userAgent != "" {
			s.userAgent = userAgent
		}
		return nil
	}
}

// WithRetry retries transport errors, 429 and 5xx responses with exponential backoff.
// maxAttempts of 1 disables retrying.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *settings) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		s.maxAttempts = maxAttempts
		s.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets the logger for provider diagnostics.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

func applyOptions(opts []Option) (*settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s, nil
}
