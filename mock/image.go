package mock

import (
	"context"

	"github.com/fwojciec/xhsnote"
)

var (
	_ xhsnote.ImageDownloader = (*ImageDownloader)(nil)
	_ xhsnote.ImageStore      = (*ImageStore)(nil)
	_ xhsnote.ImageAcquirer   = (*ImageAcquirer)(nil)
)

// ImageDownloader is a mock implementation of xhsnote.ImageDownloader.
type ImageDownloader struct {
	DownloadFn func(ctx context.Context, url string) (*xhsnote.Image, error)
}

func (d *ImageDownloader) Download(ctx context.Context, url string) (*xhsnote.Image, error) {
	return d.DownloadFn(ctx, url)
}

// ImageStore is a mock implementation of xhsnote.ImageStore.
type ImageStore struct {
	PutFn func(ctx context.Context, key string, img *xhsnote.Image) (string, error)
	GetFn func(ctx context.Context, key string) (*xhsnote.Image, error)
}

func (s *ImageStore) Put(ctx context.Context, key string, img *xhsnote.Image) (string, error) {
	return s.PutFn(ctx, key, img)
}

func (s *ImageStore) Get(ctx context.Context, key string) (*xhsnote.Image, error) {
	return s.GetFn(ctx, key)
}

// ImageAcquirer is a mock implementation of xhsnote.ImageAcquirer.
type ImageAcquirer struct {
	AcquireFn func(ctx context.Context, noteID string, urls []string) ([]string, error)
}

func (a *ImageAcquirer) Acquire(ctx context.Context, noteID string, urls []string) ([]string, error) {
	return a.AcquireFn(ctx, noteID, urls)
}
