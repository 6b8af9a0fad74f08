// Package acquire downloads and stores the images of a note. Downloads run
// concurrently with a bounded worker count, a per-host rate limit and a
// deadline for the whole batch.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/xhsnote"
	"golang.org/x/sync/errgroup"
)

// Defaults for an Acquirer.
const (
	DefaultConcurrency  = 4
	DefaultBatchTimeout = 60 * time.Second
	DefaultHostRate     = 8
)

// Ensure Acquirer implements xhsnote.ImageAcquirer at compile time.
var _ xhsnote.ImageAcquirer = (*Acquirer)(nil)

// Acquirer downloads images and hands them to an ImageStore.
type Acquirer struct {
	downloader  xhsnote.ImageDownloader
	store       xhsnote.ImageStore
	limiter     *HostLimiter
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithConcurrency sets the maximum number of simultaneous downloads.
func WithConcurrency(n int) Option {
	return func(a *Acquirer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithBatchTimeout bounds the time spent on one batch.
func WithBatchTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		a.timeout = d
	}
}

// WithHostLimiter replaces the default per-host limiter.
func WithHostLimiter(l *HostLimiter) Option {
	return func(a *Acquirer) {
		a.limiter = l
	}
}

// WithLogger sets the logger for per-image failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Acquirer) {
		a.logger = l
	}
}

// New creates an Acquirer.
func New(d xhsnote.ImageDownloader, s xhsnote.ImageStore, opts ...Option) *Acquirer {
	a := &Acquirer{
		downloader:  d,
		store:       s,
		limiter:     NewHostLimiter(DefaultHostRate, 1),
		concurrency: DefaultConcurrency,
		timeout:     DefaultBatchTimeout,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire downloads each distinct URL and stores it under noteID. The
// returned references follow the order of urls; failed images are logged
// and left out.
func (a *Acquirer) Acquire(ctx context.Context, noteID string, urls []string) ([]string, error) {
	if noteID == "" {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "note id required")
	}

	unique := dedupe(urls)
	if len(unique) == 0 {
		return []string{}, nil
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	refs := make([]string, len(unique))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, u := range unique {
		g.Go(func() error {
			ref, err := a.acquireOne(ctx, noteID, u)
			if err != nil {
				a.logger.Warn("image skipped", "note", noteID, "url", u, "err", err)
				return nil
			}
			refs[i] = ref
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (a *Acquirer) acquireOne(ctx context.Context, noteID, url string) (string, error) {
	if err := a.limiter.Wait(ctx, url); err != nil {
		return "", fmt.Errorf("wait for host: %w", err)
	}
	img, err := a.downloader.Download(ctx, url)
	if err != nil {
		return "", err
	}
	return a.store.Put(ctx, Key(noteID, url, img.ContentType), img)
}

// dedupe drops empty and repeated URLs, keeping first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
