// Package http provides an HTTP implementation of keiba.Fetcher with
// retries for transient failures.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/hashicorp/go-retryablehttp"
)

// Defaults for Fetcher options.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 30 * time.Second
	DefaultUserAgent    = "keiba/1.0 (+https://github.com/fwojciec/keiba)"
)

// Ensure Fetcher implements keiba.Fetcher at compile time.
var _ keiba.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw page bodies over HTTP. Connection errors, 429 and
// 5xx responses are retried with exponential backoff.
type Fetcher struct {
	client    *retryablehttp.Client
	timeout   time.Duration
	retryMax  int
	waitMin   time.Duration
	waitMax   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a single attempt.
// Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetryMax sets how many times a failed request is retried.
// Defaults to DefaultRetryMax.
func WithRetryMax(n int) Option {
	return func(f *Fetcher) {
		f.retryMax = n
	}
}

// WithRetryWait sets the bounds of the backoff between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(f *Fetcher) {
		f.waitMin = min
		f.waitMax = max
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		retryMax:  DefaultRetryMax,
		waitMin:   DefaultRetryWaitMin,
		waitMax:   DefaultRetryWaitMax,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = f.timeout
	client.RetryMax = f.retryMax
	client.RetryWaitMin = f.waitMin
	client.RetryWaitMax = f.waitMax
	client.CheckRetry = retryablehttp.DefaultRetryPolicy
	// Attempts are logged by slog.LoggingFetcher.
	client.Logger = nil
	f.client = client

	return f
}

// Fetch returns the undecoded body of the page at url.
// Returns ENOTFOUND for a 404 response.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, keiba.Errorf(keiba.ENOTFOUND, "HTTP 404 for %s", url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.HTTPClient.CloseIdleConnections()
	return nil
}
