// Package pipeline turns a share payload into a note record. It wires the
// classifier, resolver, fetcher, parser, preset store and image acquirer
// together and decides which failures degrade and which are returned.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/xhsnote"
	"github.com/google/uuid"
)

// Default stage timeouts.
const (
	DefaultResolveTimeout = 10 * time.Second
	DefaultFetchTimeout   = 10 * time.Second
)

// Pipeline extracts note records from share payloads.
//
// Resolver, Fetcher and Parser are required. Presets and Images are
// optional; without Images no image is ever stored.
type Pipeline struct {
	Resolver xhsnote.Resolver
	Fetcher  xhsnote.Fetcher
	Parser   xhsnote.Parser
	Presets  xhsnote.PresetService
	Images   xhsnote.ImageAcquirer
	Logger   *slog.Logger

	ResolveTimeout time.Duration
	FetchTimeout   time.Duration
}

// Extract classifies shareText, gathers the note and returns a fully
// shaped record.
//
// Only two failures are returned: EUNRECOGNIZED when shareText holds no
// link or HTML, and ERESOLVE or ENOIDENTIFIER when the link cannot be
// resolved and no preset matches the share hint. Every other failure
// yields a degraded record.
func (p *Pipeline) Extract(ctx context.Context, shareText string, saveImages bool) (*xhsnote.Record, error) {
	reqID := uuid.NewString()
	log := p.logger().With("request_id", reqID)

	in, err := xhsnote.Classify(shareText)
	if err != nil {
		log.Info("unrecognized input", "err", err)
		return nil, err
	}
	log = log.With("kind", in.Kind.String())

	var (
		rec    *xhsnote.Record
		noteID string
	)
	switch in.Kind {
	case xhsnote.InputInlineHTML:
		rec, noteID = p.extractInline(in, log)
		if rec.LowConfidence() {
			if preset, ok := p.preset(noteID); ok {
				log.Info("low confidence, serving preset", "note", noteID)
				return finish(preset), nil
			}
		}
	default:
		ref, err := p.resolve(ctx, in.URL)
		if err != nil {
			if preset, ok := p.preset(in.Hint); ok {
				log.Info("resolution failed, serving preset", "hint", in.Hint, "err", err)
				return finish(preset), nil
			}
			log.Warn("resolution failed", "url", in.URL, "err", err)
			return nil, err
		}
		log = log.With("note", ref.NoteID)

		if preset, ok := p.preset(ref.NoteID); ok {
			log.Info("serving preset")
			return finish(preset), nil
		}
		rec = p.extractRemote(ctx, ref, log)
		noteID = ref.NoteID
	}

	rec.SavedImages = []string{}
	if saveImages && p.Images != nil && len(rec.Images) > 0 {
		if noteID == "" {
			noteID = reqID
		}
		saved, err := p.Images.Acquire(ctx, noteID, rec.Images)
		if err != nil {
			log.Warn("image acquisition failed", "err", err)
		} else {
			rec.SavedImages = saved
		}
	}

	log.Info("extracted",
		"low_confidence", rec.LowConfidence(),
		"hashtags", len(rec.Hashtags),
		"images", len(rec.Images),
		"saved", len(rec.SavedImages),
	)
	return finish(rec), nil
}

// extractInline parses an HTML payload without any network access and
// returns the note id named by the page, if any.
func (p *Pipeline) extractInline(in *xhsnote.Input, log *slog.Logger) (*xhsnote.Record, string) {
	rec, err := p.Parser.Parse(in.Raw)
	if err != nil {
		log.Warn("parse failed", "err", err)
		rec = &xhsnote.Record{}
	}

	var noteID string
	if rec.URL != "" {
		if ref, err := xhsnote.ParseReference(rec.URL); err == nil {
			noteID = ref.NoteID
			rec.URL = ref.CanonicalURL
		}
	}
	return rec, noteID
}

// extractRemote fetches and parses the note page. Fetch and parse failures
// degrade to an empty record carrying only the canonical URL.
func (p *Pipeline) extractRemote(ctx context.Context, ref *xhsnote.Reference, log *slog.Logger) *xhsnote.Record {
	html, err := p.fetch(ctx, ref.CanonicalURL)
	if err != nil {
		log.Warn("fetch failed, returning degraded record", "url", ref.CanonicalURL, "err", err)
		return &xhsnote.Record{URL: ref.CanonicalURL}
	}

	rec, err := p.Parser.Parse(html)
	if err != nil {
		log.Warn("parse failed, returning degraded record", "err", err)
		return &xhsnote.Record{URL: ref.CanonicalURL}
	}
	if rec.LowConfidence() {
		log.Info("low confidence result")
	}
	rec.URL = ref.CanonicalURL
	return rec
}

// resolve returns the note reference for url. Note URLs that already carry
// an identifier are parsed without network access.
func (p *Pipeline) resolve(ctx context.Context, url string) (*xhsnote.Reference, error) {
	if !xhsnote.IsShortLink(url) {
		if ref, err := xhsnote.ParseReference(url); err == nil {
			return ref, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, durationOr(p.ResolveTimeout, DefaultResolveTimeout))
	defer cancel()

	ref, err := p.Resolver.Resolve(ctx, url)
	if err != nil {
		if code := xhsnote.ErrorCode(err); code != xhsnote.ERESOLVE && code != xhsnote.ENOIDENTIFIER {
			return nil, xhsnote.Errorf(xhsnote.ERESOLVE, "resolve %s: %v", url, err)
		}
		return nil, err
	}
	return ref, nil
}

// fetch retrieves url and rejects login walls.
func (p *Pipeline) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, durationOr(p.FetchTimeout, DefaultFetchTimeout))
	defer cancel()

	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if xhsnote.IsLoginWall(html) {
		return "", xhsnote.Errorf(xhsnote.EFETCH, "%s requires login", url)
	}
	return html, nil
}

func (p *Pipeline) preset(noteID string) (*xhsnote.Record, bool) {
	if p.Presets == nil || noteID == "" {
		return nil, false
	}
	return p.Presets.Lookup(noteID)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// finish applies defaults so every field of rec is present.
func finish(rec *xhsnote.Record) *xhsnote.Record {
	rec.Normalize()
	return rec
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
