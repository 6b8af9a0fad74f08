// Package fs stores note images as files under a base directory.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/xhsnote"
	"github.com/gabriel-vasile/mimetype"
)

// Ensure ImageStore implements xhsnote.ImageStore at compile time.
var _ xhsnote.ImageStore = (*ImageStore)(nil)

// ImageStore writes images to baseDir/<key>. Writes go to a temporary file
// first and are renamed into place, so readers never see partial images.
type ImageStore struct {
	baseDir string
}

// NewImageStore creates an ImageStore rooted at baseDir.
func NewImageStore(baseDir string) *ImageStore {
	return &ImageStore{baseDir: baseDir}
}

// Put writes img under key and returns the file path.
func (s *ImageStore) Put(ctx context.Context, key string, img *xhsnote.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".img-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(img.Data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Get reads the image stored under key. A file path returned by Put is
// accepted in place of the key. The content type is sniffed from the file
// contents.
func (s *ImageStore) Get(ctx context.Context, key string) (*xhsnote.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(s.keyOf(key))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, xhsnote.Errorf(xhsnote.ENOTFOUND, "image %q not found", key)
	} else if err != nil {
		return nil, err
	}

	return &xhsnote.Image{
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

// keyOf strips the baseDir prefix from a reference returned by Put.
func (s *ImageStore) keyOf(ref string) string {
	prefix := filepath.Clean(s.baseDir) + string(filepath.Separator)
	if rest, ok := strings.CutPrefix(filepath.Clean(filepath.FromSlash(ref)), prefix); ok {
		return filepath.ToSlash(rest)
	}
	return ref
}

// path maps key to a file below baseDir. Keys that are absolute or escape
// baseDir are rejected with EINVALID.
func (s *ImageStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "invalid image key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}
