package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/xhsnote"
)

// Selectors for the rendered note page, most specific first.
var (
	titleSelectors = []string{
		"#detail-title",
		".note-content .title",
		".note-detail .title",
		"h1",
	}
	bodySelectors = []string{
		"#detail-desc",
		".note-content .desc",
		".note-text",
		".note-detail .desc",
	}
	likesSelectors    = []string{".like-wrapper .count", ".like-count"}
	commentsSelectors = []string{".chat-wrapper .count", ".comment-count"}
	collectsSelectors = []string{".collect-wrapper .count", ".collect-count"}
	engageSelectors   = []string{".engage-bar", ".interact-container", ".interactions"}
)

// ExtractVisible reads the note from visible DOM text. It is the last
// resort for pages that carry neither usable meta tags nor embedded state.
func ExtractVisible(p *Page) *xhsnote.Record {
	rec := &xhsnote.Record{
		Title:   firstText(p.Doc, titleSelectors...),
		Content: firstText(p.Doc, bodySelectors...),
	}
	if rec.Title == "" {
		rec.Title = cleanTitle(p.Doc.Find("title").First().Text())
	}

	rec.InteractionInfo.Likes = firstCount(p.Doc, likesSelectors...)
	rec.InteractionInfo.Comments = firstCount(p.Doc, commentsSelectors...)
	rec.InteractionInfo.Collects = firstCount(p.Doc, collectsSelectors...)

	if engage := firstText(p.Doc, engageSelectors...); engage != "" {
		likes, comments, collects := ExtractCounts(engage)
		fill(&rec.InteractionInfo.Likes, likes)
		fill(&rec.InteractionInfo.Comments, comments)
		fill(&rec.InteractionInfo.Collects, collects)
	}

	return rec
}

// firstText returns the trimmed text of the first selector that matches a
// non-empty element.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = collapseSpaces(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// firstCount returns the first matched text that starts with a digit.
// Counters render as a label ("赞") instead of a number when zero.
func firstCount(doc *goquery.Document, selectors ...string) string {
	text := firstText(doc, selectors...)
	if text == "" || !unicode.IsDigit([]rune(text)[0]) {
		return ""
	}
	return text
}

// collapseSpaces trims s and collapses horizontal whitespace runs while
// keeping line breaks.
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
