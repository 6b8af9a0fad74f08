// Package rod renders note pages in headless Chrome. It is the fallback
// fetcher for pages that only carry note data after client-side rendering.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/xhsnote"
	"github.com/go-rod/rod/lib/proto"
)

// Defaults for a Fetcher.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultReadyTimeout = 3 * time.Second
)

// DefaultReadySelector appears once the note metadata has rendered.
const DefaultReadySelector = `meta[property="og:title"]`

// Ensure Fetcher implements xhsnote.Fetcher at compile time.
var _ xhsnote.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager       *BrowserManager
	timeout       time.Duration
	userAgent     string
	readySelector string
	readyTimeout  time.Duration
	maxPages      int64
	bin           string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds a single Fetch, including navigation and load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithReadySelector sets the element Fetch waits for after load. An empty
// selector skips the wait.
func WithReadySelector(selector string, timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.readySelector = selector
		f.readyTimeout = timeout
	}
}

// WithRecycleAfter sets how many pages the browser renders before it is
// replaced by a fresh process.
func WithRecycleAfter(pages int64) Option {
	return func(f *Fetcher) {
		f.maxPages = pages
	}
}

// WithBrowserBin sets the Chrome binary used by the fetcher.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:       DefaultFetchTimeout,
		readySelector: DefaultReadySelector,
		readyTimeout:  DefaultReadyTimeout,
		maxPages:      DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages), WithManagerBrowserBin(f.bin))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML. A missing ready
// element is not an error; the page is returned as rendered so far.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Browser()
	if browser == nil {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "fetcher is closed")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()
	defer f.manager.PageRendered()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}

	if f.readySelector != "" {
		_, _ = page.Timeout(f.readyTimeout).Element(f.readySelector)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return html, nil
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
