// Package readability is an alternative article extractor for the body
// fallback, built on go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/xhsnote"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements xhsnote.Extractor at compile time.
var _ xhsnote.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main text block of a note page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and readable content HTML.
func (e *Extractor) Extract(rawHTML string) (*xhsnote.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "extract article: %v", err)
	}

	return &xhsnote.ExtractResult{
		Title:       strings.TrimSpace(strings.TrimSuffix(article.Title, " - 小红书")),
		ContentHTML: strings.TrimSpace(article.Content),
	}, nil
}
