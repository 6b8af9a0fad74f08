package xhsnote

import "context"

// Image is a downloaded image.
type Image struct {
	URL         string
	ContentType string
	Data        []byte
}

// ImageDownloader retrieves image bytes.
type ImageDownloader interface {
	// Download fetches url. Returns EFETCH on failure or when the payload
	// is not an image.
	Download(ctx context.Context, url string) (*Image, error)
}

// ImageStore persists image bytes under a key.
// Implementations may be durable (filesystem) or process-local (in-memory);
// callers only see the returned stored reference.
type ImageStore interface {
	// Put stores img under key and returns a reference to the stored copy.
	Put(ctx context.Context, key string, img *Image) (ref string, err error)

	// Get retrieves a stored image by key.
	// Returns ENOTFOUND if no image is stored under key.
	Get(ctx context.Context, key string) (*Image, error)
}

// ImageAcquirer downloads and stores the images of a note.
type ImageAcquirer interface {
	// Acquire stores each URL under a noteID namespace and returns the
	// stored references of the successful downloads, in the order of urls.
	// Per-URL failures are skipped, never returned.
	Acquire(ctx context.Context, noteID string, urls []string) ([]string, error)
}
