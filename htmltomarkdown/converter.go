// Package htmltomarkdown renders extracted note bodies as plain Markdown
// text using html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/xhsnote"
)

// Ensure Converter implements xhsnote.Converter at compile time.
var _ xhsnote.Converter = (*Converter)(nil)

var (
	// imageRe matches inline Markdown images. Note images are collected
	// separately, so they are dropped from the body text.
	imageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

	// escapeRe matches a backslash escape of a Markdown punctuation
	// character. Escapes are removed so hashtags read as "#tag".
	escapeRe = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!|>~])")

	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Converter wraps html-to-markdown to turn note body HTML into text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms body HTML into trimmed Markdown text without images.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "convert HTML: %v", err)
	}

	md = imageRe.ReplaceAllString(md, "")
	md = escapeRe.ReplaceAllString(md, "$1")
	md = blankLinesRe.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}
