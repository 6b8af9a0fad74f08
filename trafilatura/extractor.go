// Package trafilatura extracts the article body of a note page with
// go-trafilatura. It backs the parser's body fallback for pages whose
// description lives only in visible markup.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/xhsnote"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements xhsnote.Extractor at compile time.
var _ xhsnote.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main text block out of a note page.
type Extractor struct {
	fallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithoutFallback disables the readability and dom-distiller fallbacks
// trafilatura runs when its own heuristics find too little text.
func WithoutFallback() Option {
	return func(e *Extractor) {
		e.fallback = false
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{fallback: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the page title and the main content block as HTML.
// ContentHTML is empty when trafilatura finds no body.
func (e *Extractor) Extract(rawHTML string) (*xhsnote.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.fallback,
	})
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "extract article: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, xhsnote.Errorf(xhsnote.EINTERNAL, "render article: %v", err)
		}
		contentHTML = buf.String()
	}

	return &xhsnote.ExtractResult{
		Title:       strings.TrimSpace(strings.TrimSuffix(result.Metadata.Title, " - 小红书")),
		ContentHTML: contentHTML,
	}, nil
}
