package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRequestTimeout wraps transport failures caused by a timeout
var ErrRequestTimeout = errors.New("request timeout")

// Fetcher performs one blocking GET
type Fetcher interface {
	// Fetch returns the status and body, or a FetchResult with Err set on
	// transport failure. Non-200 statuses are not errors at this level.
	Fetch(ctx context.Context, url, userAgent string) FetchResult
}

// HTTPFetcher is a Fetcher backed by net/http.
// It follows the client's default redirect policy and never retries.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
}

// FetcherOption is a functional option for configuring HTTPFetcher
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom underlying HTTP client (useful for testing)
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithTimeout bounds each request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = timeout
	}
}

// WithHeader adds a header sent with every request
func WithHeader(key, value string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers[key] = value
	}
}

// NewHTTPFetcher creates a fetcher that asks for GitHub's v3 JSON media type
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{},
		headers: map[string]string{
			"Accept": "application/vnd.github.v3+json",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a GET to url with the given User-Agent
func (f *HTTPFetcher) Fetch(ctx context.Context, url, userAgent string) FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("create request: %w", err)}
	}

	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			err = fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return FetchResult{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("read response body: %w", err)}
	}

	return FetchResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}
