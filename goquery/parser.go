// Package goquery implements xhsnote.Parser on top of goquery. A note page
// is read by several independent strategies whose partial records are
// merged: the first strategy to find a title or body wins and later ones
// only fill the gaps it left.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/xhsnote"
)

// Page is the input shared by all strategies.
type Page struct {
	Doc  *goquery.Document
	HTML string
}

// Strategy extracts a partial record from a page. Extract must be a pure
// function of the page and may return nil when it finds nothing.
type Strategy struct {
	Name    string
	Extract func(p *Page) *xhsnote.Record
}

// DefaultStrategies returns the strategies in priority order: meta tags,
// embedded state JSON, then visible DOM text.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "meta", Extract: ExtractMeta},
		{Name: "embedded", Extract: ExtractEmbedded},
		{Name: "visible", Extract: ExtractVisible},
	}
}

// Ensure Parser implements xhsnote.Parser at compile time.
var _ xhsnote.Parser = (*Parser)(nil)

// Parser runs strategies over a document and merges their results.
type Parser struct {
	strategies []Strategy
	extractor  xhsnote.Extractor
	converter  xhsnote.Converter
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStrategies replaces the default strategies.
func WithStrategies(s ...Strategy) ParserOption {
	return func(p *Parser) {
		p.strategies = s
	}
}

// WithBodyFallback sets an article extractor and converter used for the
// body text when no strategy found one.
func WithBodyFallback(ext xhsnote.Extractor, conv xhsnote.Converter) ParserOption {
	return func(p *Parser) {
		p.extractor = ext
		p.converter = conv
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a partial record from html.
func (p *Parser) Parse(html string) (*xhsnote.Record, error) {
	if strings.TrimSpace(html) == "" {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EINVALID, "failed to parse HTML: %v", err)
	}
	page := &Page{Doc: doc, HTML: html}

	partials := make([]*xhsnote.Record, 0, len(p.strategies))
	for _, s := range p.strategies {
		if r := s.Extract(page); r != nil {
			partials = append(partials, r)
		}
	}

	rec := merge(partials)

	if rec.Content == "" && p.extractor != nil && p.converter != nil {
		title, body := p.articleBody(html)
		if rec.Title == "" {
			rec.Title = title
		}
		rec.Content = body
		partials = append(partials, &xhsnote.Record{Content: body})
	}

	// Hashtags and counters read the text of every strategy, so a tag
	// present only in the meta description survives when the embedded
	// data won.
	var texts []string
	for _, r := range partials {
		texts = append(texts, r.Content)
	}
	var tags []string
	tags = append(tags, ExtractHashtags(texts...)...)
	for _, r := range partials {
		tags = append(tags, r.Hashtags...)
	}
	rec.Hashtags = uniqueStrings(tags)

	likes, comments, collects := ExtractCounts(strings.Join(texts, "\n"))
	fill(&rec.InteractionInfo.Likes, likes)
	fill(&rec.InteractionInfo.Comments, comments)
	fill(&rec.InteractionInfo.Collects, collects)

	return rec, nil
}

// articleBody runs the article fallback. Failures leave the body empty.
func (p *Parser) articleBody(html string) (title, body string) {
	res, err := p.extractor.Extract(html)
	if err != nil || res == nil {
		return "", ""
	}
	if strings.TrimSpace(res.ContentHTML) == "" {
		return res.Title, ""
	}
	text, err := p.converter.Convert(res.ContentHTML)
	if err != nil {
		return res.Title, ""
	}
	return res.Title, strings.TrimSpace(text)
}

// merge applies first-match-wins plus gap filling. Images are the union of
// every strategy's images in strategy order.
func merge(partials []*xhsnote.Record) *xhsnote.Record {
	winner := -1
	for i, r := range partials {
		if !r.LowConfidence() {
			winner = i
			break
		}
	}

	rec := &xhsnote.Record{}
	order := make([]*xhsnote.Record, 0, len(partials))
	if winner >= 0 {
		order = append(order, partials[winner])
	}
	for i, r := range partials {
		if i != winner {
			order = append(order, r)
		}
	}

	for _, r := range order {
		fill(&rec.URL, r.URL)
		fill(&rec.Title, r.Title)
		fill(&rec.Content, r.Content)
		fill(&rec.InteractionInfo.Likes, r.InteractionInfo.Likes)
		fill(&rec.InteractionInfo.Comments, r.InteractionInfo.Comments)
		fill(&rec.InteractionInfo.Collects, r.InteractionInfo.Collects)
	}

	var images []string
	for _, r := range partials {
		images = append(images, r.Images...)
	}
	rec.Images = uniqueStrings(images)

	return rec
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
