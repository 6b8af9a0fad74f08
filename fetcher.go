package xhsnote

import (
	"context"
	"strings"
)

// Fetcher retrieves the HTML document for a canonical note URL.
// Implementations send browser-like requests; rejection by the platform is
// expected and reported as EFETCH.
type Fetcher interface {
	// Fetch returns the HTML at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// loginWallMarkers are phrases the platform shows instead of note content
// to anonymous visitors.
var loginWallMarkers = []string{
	"请登录后继续浏览",
	"登录后查看更多",
}

// IsLoginWall reports whether html is a login prompt rather than a note page.
func IsLoginWall(html string) bool {
	for _, m := range loginWallMarkers {
		if strings.Contains(html, m) {
			return true
		}
	}
	return false
}
