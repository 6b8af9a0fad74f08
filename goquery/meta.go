package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/xhsnote"
)

// titleSuffix is appended to page titles by the platform.
const titleSuffix = " - 小红书"

// ExtractMeta reads descriptive and Open Graph meta tags, including the
// platform's og:xhs:* counters.
func ExtractMeta(p *Page) *xhsnote.Record {
	metas := p.Doc.Find("meta")
	if metas.Length() == 0 {
		return nil
	}

	return &xhsnote.Record{
		URL:      metaContent(metas, "og:url"),
		Title:    cleanTitle(metaContent(metas, "og:title")),
		Content:  metaContent(metas, "description", "og:description"),
		Hashtags: keywordTags(metaContent(metas, "keywords")),
		Images:   metaImages(metas),
		InteractionInfo: xhsnote.Interaction{
			Likes:    metaContent(metas, "og:xhs:note_like"),
			Comments: metaContent(metas, "og:xhs:note_comment"),
			Collects: metaContent(metas, "og:xhs:note_collect"),
		},
	}
}

// metaKey returns the property or, failing that, the name of a meta tag.
func metaKey(s *goquery.Selection) string {
	if prop := strings.TrimSpace(s.AttrOr("property", "")); prop != "" {
		return strings.ToLower(prop)
	}
	return strings.ToLower(strings.TrimSpace(s.AttrOr("name", "")))
}

// metaContent returns the first non-empty content for any of keys, trying
// keys in order.
func metaContent(metas *goquery.Selection, keys ...string) string {
	for _, key := range keys {
		var found string
		metas.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if metaKey(s) != key {
				return true
			}
			found = strings.TrimSpace(s.AttrOr("content", ""))
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// metaImages returns every og:image URL in document order.
func metaImages(metas *goquery.Selection) []string {
	var images []string
	metas.Each(func(_ int, s *goquery.Selection) {
		if metaKey(s) != "og:image" {
			return
		}
		if u := normalizeImageURL(s.AttrOr("content", "")); u != "" {
			images = append(images, u)
		}
	})
	return images
}

func cleanTitle(title string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), titleSuffix))
}
