package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/xhsnote"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultFetchTimeout is the default timeout for a note page request.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRetries is the default number of retries after a failed attempt.
const DefaultRetries = 2

// maxPageBytes caps the size of a note page read into memory.
const maxPageBytes = 10 << 20

// Ensure Fetcher implements xhsnote.Fetcher at compile time.
var _ xhsnote.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves note pages using plain HTTP requests with browser-like
// headers. It does not execute JavaScript; the page's meta tags and embedded
// state script are enough for parsing.
type Fetcher struct {
	client    *retryablehttp.Client
	timeout   time.Duration
	retries   int
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP attempt.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetries sets how many times a failed request is retried.
// Defaults to DefaultRetries if not specified.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger makes the retrying client log its attempts.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		retries:   DefaultRetries,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = newRetryClient(f.timeout, f.retries, f.logger)

	return f
}

// Fetch retrieves the HTML content from the given URL.
// Every failure is reported as EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "invalid request for %s: %v", url, err)
	}
	setBrowserHeaders(req.Header, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "reading %s: %v", url, err)
	}

	if strings.TrimSpace(string(body)) == "" {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "empty body for %s", url)
	}

	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.HTTPClient.CloseIdleConnections()
	return nil
}
