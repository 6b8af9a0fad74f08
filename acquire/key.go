package acquire

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
)

// cdnHost is the image CDN domain whose paths carry an image identifier.
const cdnHost = "xhscdn.com"

// defaultExt is used when the content type maps to no known extension.
const defaultExt = ".jpg"

// cdnIDRe matches the hex token the CDN places before the file segment.
var cdnIDRe = regexp.MustCompile(`^[0-9a-f]{16,}$`)

// Key returns the storage key for an image: "<noteID>/<name><ext>".
func Key(noteID, rawURL, contentType string) string {
	return noteID + "/" + ImageName(rawURL) + ExtensionFor(contentType)
}

// ImageName derives a stable file name for an image URL. On the CDN it is
// the identifier path segment before the file name. Anything else uses the
// xxhash of the URL.
func ImageName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && strings.HasSuffix(u.Hostname(), cdnHost) {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if n := len(segments); n >= 2 && cdnIDRe.MatchString(segments[n-2]) {
			return segments[n-2]
		}
	}
	return strconv.FormatUint(xxhash.Sum64String(rawURL), 16)
}

// ExtensionFor returns the file extension for an image content type.
func ExtensionFor(contentType string) string {
	if m := mimetype.Lookup(strings.TrimSpace(strings.Split(contentType, ";")[0])); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return defaultExt
}
