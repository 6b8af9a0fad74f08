package goquery

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// hashtagRe matches a "#" followed by a run of characters that are not
// whitespace, "#", "[" or "]". The bracket exclusion cuts the "[话题]" topic
// suffix the app appends, so "#旅行[话题]#" yields "#旅行".
//
// ExtractHashtags refines each match: trailing punctuation is trimmed
// ("#美食。" yields "#美食"), and a "#" directly after an ASCII letter,
// digit, "_" or "/", or inside a token containing "://" or starting with
// "www.", is a URL fragment or an inline anchor rather than a tag. A "#"
// that starts right where the previous match ended ("#a#b") is a tag.
var hashtagRe = regexp.MustCompile(`#[^\s#\[\]]+`)

// countPattern matches a counter value: digits, an optional decimal part,
// an optional unit (万, 千, w, k in either case) and an optional "+".
const countPattern = `(\d+(?:\.\d+)?(?:万|千|[wWkK])?\+?)`

// counterPatterns pairs a label-first and a number-first pattern per
// counter. Labels may be followed by an ASCII or full-width colon.
// The number-first form is only tried when the label-first form has no match.
type counterPattern struct {
	labelFirst  *regexp.Regexp
	numberFirst *regexp.Regexp
}

func newCounterPattern(labels string) counterPattern {
	return counterPattern{
		labelFirst:  regexp.MustCompile(`(?i)(?:` + labels + `)\s*[:：]?\s*` + countPattern),
		numberFirst: regexp.MustCompile(`(?i)` + countPattern + `\s*(?:` + labels + `)`),
	}
}

var (
	likesPattern    = newCounterPattern(`点赞|赞|likes?`)
	commentsPattern = newCounterPattern(`评论|comments?`)
	collectsPattern = newCounterPattern(`收藏|collects?`)
)

// find returns the first labelled number in text, or "" if none.
func (p counterPattern) find(text string) string {
	if m := p.labelFirst.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := p.numberFirst.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractHashtags returns the unique hashtags in texts in first-seen order.
func ExtractHashtags(texts ...string) []string {
	var tags []string
	for _, text := range texts {
		prevEnd := -1
		for _, loc := range hashtagRe.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			adjacent := start == prevEnd
			prevEnd = end
			if !adjacent && !tagBoundary(text[:start]) {
				continue
			}
			if tag := strings.TrimRightFunc(text[start:end], unicode.IsPunct); len(tag) > 1 {
				tags = append(tags, tag)
			}
		}
	}
	return uniqueStrings(tags)
}

// tagBoundary reports whether a hashtag may start after prefix.
func tagBoundary(prefix string) bool {
	if prefix == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(prefix)
	if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '/') {
		return false
	}
	token := prefix[strings.LastIndexFunc(prefix, unicode.IsSpace)+1:]
	return !strings.Contains(token, "://") && !strings.HasPrefix(token, "www.")
}

// ExtractCounts fills the interaction counters found as labelled numbers in
// text. Each counter is independent; a missing label leaves it empty.
func ExtractCounts(text string) (likes, comments, collects string) {
	return likesPattern.find(text), commentsPattern.find(text), collectsPattern.find(text)
}

// keywordTags turns a comma separated keyword list into hashtags.
func keywordTags(keywords string) []string {
	var tags []string
	for _, kw := range strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || r == '，'
	}) {
		if tag := asHashtag(kw); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// asHashtag normalizes a bare topic name into "#name".
func asHashtag(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimSuffix(name, "[话题]")
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return "#" + name
}

// uniqueStrings removes empty strings and duplicates, keeping first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// normalizeImageURL gives protocol-relative URLs an https scheme and drops
// anything that is not an absolute http(s) URL.
func normalizeImageURL(u string) string {
	u = strings.TrimSpace(u)
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	}
	return ""
}
