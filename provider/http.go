package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrorBody bounds the response text carried in a StatusError.
const maxErrorBody = 256

// fetcher performs GET requests with a shared client, User-Agent and retry policy.
type fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func newFetcher(s *settings, logger *slog.Logger) *fetcher {
	return &fetcher{
		client:      s.client,
		userAgent:   s.userAgent,
		maxAttempts: s.maxAttempts,
		retryDelay:  s.retryDelay,
		logger:      logger,
	}
}

// getBody sends a GET request and returns the body of a 2xx response.
func (f *fetcher) getBody(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var body []byte
	err := retryWithBackoff(ctx, f.logger, func() error {
		data, err := f.getOnce(ctx, url, headers)
		if err != nil {
			return err
		}
		body = data
		return nil
	}, f.maxAttempts, f.retryDelay)
	return body, err
}

func (f *fetcher) getOnce(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(data)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		statusErr := &StatusError{Code: resp.StatusCode, Body: text}
		if statusErr.retryable() {
			return nil, statusErr
		}
		return nil, permanent(statusErr)
	}
	return data, nil
}
