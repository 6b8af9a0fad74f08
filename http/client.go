// Package http provides net/http implementations of the xhsnote network
// services: the note page fetcher, the short-link resolver and the image
// downloader.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultUserAgent mimics the in-app browser the platform serves share
// links to. Pages requested with it are less likely to be rejected.
const DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_8 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 MicroMessenger/8.0.20(0x18001442) NetType/WIFI Language/zh_CN"

// defaultReferer is sent with every request; the image CDN rejects
// hot-linked requests without it.
const defaultReferer = "https://www.xiaohongshu.com"

// trackerCookie is the anonymous tracker cookie a first-time browser visit gets.
const trackerCookie = "xhsTrackerId=ceaf0d78-c757-4321-c864-c0b3f9797e4b; extra_exp_ids=h5_1208_exp3,h5_1130_exp1,ques_exp2"

// setBrowserHeaders sets the headers a mobile browser would send.
// Accept-Encoding is left to the transport so gzip is decoded transparently.
func setBrowserHeaders(h http.Header, userAgent string) {
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh-Hans;q=0.9")
	h.Set("Connection", "keep-alive")
	h.Set("Cookie", trackerCookie)
	h.Set("Referer", defaultReferer)
}

// newRetryClient builds a retrying client that retries connection errors,
// 429 and 5xx responses. After the last attempt the final response is
// returned instead of an error so callers can report its status.
func newRetryClient(timeout time.Duration, retries int, logger *slog.Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// A nil *slog.Logger must not reach the interface field.
	rc.Logger = nil
	if logger != nil {
		rc.Logger = logger
	}
	return rc
}
