package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/xhsnote"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultDownloadTimeout is the default timeout for a single image request.
const DefaultDownloadTimeout = 20 * time.Second

// DefaultMaxImageBytes caps the size of a single downloaded image.
const DefaultMaxImageBytes = 20 << 20

// Ensure Downloader implements xhsnote.ImageDownloader at compile time.
var _ xhsnote.ImageDownloader = (*Downloader)(nil)

// Downloader fetches images from the platform CDN.
type Downloader struct {
	client   *retryablehttp.Client
	timeout  time.Duration
	retries  int
	maxBytes int64
	logger   *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadTimeout sets the timeout for each image request.
func WithDownloadTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithDownloadRetries sets how many times a failed image request is retried.
func WithDownloadRetries(n int) DownloaderOption {
	return func(dl *Downloader) {
		dl.retries = n
	}
}

// WithMaxImageBytes caps the accepted image size.
func WithMaxImageBytes(n int64) DownloaderOption {
	return func(dl *Downloader) {
		dl.maxBytes = n
	}
}

// WithDownloadLogger makes the retrying client log its attempts.
func WithDownloadLogger(logger *slog.Logger) DownloaderOption {
	return func(dl *Downloader) {
		dl.logger = logger
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		timeout:  DefaultDownloadTimeout,
		retries:  1,
		maxBytes: DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(dl)
	}

	dl.client = newRetryClient(dl.timeout, dl.retries, dl.logger)

	return dl
}

// Download fetches url and verifies the payload is an image by sniffing
// its bytes; the server's Content-Type header is not trusted.
func (dl *Downloader) Download(ctx context.Context, url string) (*xhsnote.Image, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "invalid image URL %s: %v", url, err)
	}
	setBrowserHeaders(req.Header, DefaultUserAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "downloading %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, dl.maxBytes+1))
	if err != nil {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "reading %s: %v", url, err)
	}
	if int64(len(data)) > dl.maxBytes {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "image %s exceeds %d bytes", url, dl.maxBytes)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, xhsnote.Errorf(xhsnote.EFETCH, "%s is not an image (%s)", url, mime.String())
	}

	return &xhsnote.Image{
		URL:         url,
		ContentType: mime.String(),
		Data:        data,
	}, nil
}
