package xhsnote

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// InputKind identifies the shape of a share payload.
type InputKind int

const (
	// InputDirectURL is a payload that is itself a single URL.
	InputDirectURL InputKind = iota
	// InputShareText is free text with an embedded note or short link URL.
	InputShareText
	// InputInlineHTML is an HTML fragment that is parsed without fetching.
	InputInlineHTML
)

// String returns the kind name used in logs.
func (k InputKind) String() string {
	switch k {
	case InputDirectURL:
		return "direct_url"
	case InputShareText:
		return "share_text"
	case InputInlineHTML:
		return "inline_html"
	}
	return "unknown"
}

// Input is a classified share payload.
type Input struct {
	Kind InputKind

	// Raw is the payload exactly as supplied.
	Raw string

	// URL is the located URL for InputDirectURL and InputShareText.
	URL string

	// Hint is a note identifier token found in share text, if any.
	// It is unverified and only used to find a preset when resolution fails.
	Hint string
}

// Reference identifies a note by its canonical URL.
type Reference struct {
	NoteID       string `json:"note_id"`
	CanonicalURL string `json:"canonical_url"`
}

// Resolver follows short links to a canonical note reference.
type Resolver interface {
	// Resolve follows redirects from url and returns the note reference.
	// Returns ERESOLVE on network failure or redirect exhaustion and
	// ENOIDENTIFIER when the final URL carries no note identifier.
	Resolve(ctx context.Context, url string) (*Reference, error)
}

// Grammar of the patterns below:
//
//   - htmlMarkerRe: "<" followed by one of meta, html, head, body, script or
//     !doctype, case-insensitive, ending at a word boundary.
//   - shortLinkRe: http or https, host xhslink.com, then a path of ASCII
//     letters, digits and "/". Full-width punctuation ends the match.
//   - noteURLRe: http or https, optional "www.", host xiaohongshu.com, path
//     "/explore/" or "/discovery/item/" plus an ASCII alphanumeric id, then an
//     optional query that stops at whitespace or a comma (ASCII or full-width).
//   - bareURLRe: the whole trimmed payload is one http(s) URL without spaces.
//   - hintRe: an ASCII alphanumeric token of 8-32 characters framed by the
//     "😆" markers the app writes around the share token.
//   - noteIDPathRe: "/explore/", "/discovery/item/" or "/item/" followed by
//     the alphanumeric note identifier.
var (
	htmlMarkerRe = regexp.MustCompile(`(?i)<\s*(?:meta|html|head|body|script|!doctype)\b`)
	shortLinkRe  = regexp.MustCompile(`https?://xhslink\.com/[A-Za-z0-9/]+`)
	noteURLRe    = regexp.MustCompile(`https?://(?:www\.)?xiaohongshu\.com/(?:explore|discovery/item)/[A-Za-z0-9]+(?:\?[^\s,，]*)?`)
	bareURLRe    = regexp.MustCompile(`^https?://\S+$`)
	hintRe       = regexp.MustCompile(`😆\s*([A-Za-z0-9]{8,32})\s*😆`)
	noteIDPathRe = regexp.MustCompile(`/(?:explore|discovery/item|item)/([A-Za-z0-9]+)`)
)

// Classify inspects a raw share payload and decides how it should be
// processed. It is a pure function of raw.
//
// Returns EUNRECOGNIZED when the payload holds neither an HTML marker nor a
// recognizable URL.
func Classify(raw string) (*Input, error) {
	in := &Input{Raw: raw}

	if htmlMarkerRe.MatchString(raw) {
		in.Kind = InputInlineHTML
		return in, nil
	}

	trimmed := strings.TrimSpace(raw)

	if m := hintRe.FindStringSubmatch(raw); m != nil {
		in.Hint = m[1]
	}

	if u := findNoteURL(raw); u != "" {
		in.URL = u
		if u == trimmed {
			in.Kind = InputDirectURL
		} else {
			in.Kind = InputShareText
		}
		return in, nil
	}

	if bareURLRe.MatchString(trimmed) {
		in.Kind = InputDirectURL
		in.URL = trimmed
		return in, nil
	}

	return nil, Errorf(EUNRECOGNIZED, "no Xiaohongshu link or HTML found in input")
}

// findNoteURL returns the first short link, or failing that the first
// canonical note URL, found in s.
func findNoteURL(s string) string {
	if m := shortLinkRe.FindString(s); m != "" {
		return m
	}
	return noteURLRe.FindString(s)
}

// IsShortLink reports whether rawURL points at the short-link host.
func IsShortLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "xhslink.com")
}

// ParseReference extracts the note identifier from a note URL and returns
// the cleaned canonical URL: query and fragment dropped and legacy
// "/discovery/item/" paths rewritten to "/explore/".
//
// Returns ENOIDENTIFIER if the path carries no note identifier.
func ParseReference(rawURL string) (*Reference, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, Errorf(EINVALID, "invalid note URL %q", rawURL)
	}

	m := noteIDPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, Errorf(ENOIDENTIFIER, "no note identifier in %q", rawURL)
	}

	canonical := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   "/explore/" + m[1],
	}
	return &Reference{NoteID: m[1], CanonicalURL: canonical.String()}, nil
}
