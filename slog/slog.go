// Package slog decorates xhsnote services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/xhsnote"
)

// Ensure decorators implement their interfaces.
var (
	_ xhsnote.Fetcher    = (*LoggingFetcher)(nil)
	_ xhsnote.Resolver   = (*LoggingResolver)(nil)
	_ xhsnote.Parser     = (*LoggingParser)(nil)
	_ xhsnote.ImageStore = (*LoggingImageStore)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   xhsnote.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next xhsnote.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingResolver wraps a Resolver with logging.
type LoggingResolver struct {
	next   xhsnote.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next xhsnote.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the resolved note.
func (r *LoggingResolver) Resolve(ctx context.Context, url string) (ref *xhsnote.Reference, err error) {
	defer func(begin time.Time) {
		var noteID string
		if ref != nil {
			noteID = ref.NoteID
		}
		r.logger.Info("resolve",
			"url", url,
			"note", noteID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, url)
}

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   xhsnote.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next xhsnote.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs what was found.
func (p *LoggingParser) Parse(html string) (rec *xhsnote.Record, err error) {
	defer func(begin time.Time) {
		attrs := []any{"bytes", len(html), "duration", time.Since(begin), "err", err}
		if rec != nil {
			attrs = append(attrs,
				"low_confidence", rec.LowConfidence(),
				"hashtags", len(rec.Hashtags),
				"images", len(rec.Images),
			)
		}
		p.logger.Info("parse", attrs...)
	}(time.Now())
	return p.next.Parse(html)
}

// LoggingImageStore wraps an ImageStore with logging.
type LoggingImageStore struct {
	next   xhsnote.ImageStore
	logger *slog.Logger
}

// NewLoggingImageStore creates a new LoggingImageStore.
func NewLoggingImageStore(next xhsnote.ImageStore, logger *slog.Logger) *LoggingImageStore {
	return &LoggingImageStore{next: next, logger: logger}
}

// Put delegates to the wrapped store and logs the stored reference.
func (s *LoggingImageStore) Put(ctx context.Context, key string, img *xhsnote.Image) (ref string, err error) {
	defer func(begin time.Time) {
		var n int
		if img != nil {
			n = len(img.Data)
		}
		s.logger.Debug("image put",
			"key", key,
			"bytes", n,
			"ref", ref,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, key, img)
}

// Get delegates to the wrapped store.
func (s *LoggingImageStore) Get(ctx context.Context, key string) (img *xhsnote.Image, err error) {
	defer func(begin time.Time) {
		var n int
		if img != nil {
			n = len(img.Data)
		}
		s.logger.Debug("image get",
			"key", key,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Get(ctx, key)
}
