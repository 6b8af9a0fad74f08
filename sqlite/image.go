package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/xhsnote"
	"github.com/google/uuid"
)

// RefPrefix prefixes the references returned by ImageStore.Put. The key
// after the prefix is what Get expects.
const RefPrefix = "/images/"

// Compile-time interface verification.
var _ xhsnote.ImageStore = (*ImageStore)(nil)

// ImageStore implements xhsnote.ImageStore using SQLite.
type ImageStore struct {
	db *DB
}

// NewImageStore creates a new ImageStore.
func NewImageStore(db *DB) *ImageStore {
	return &ImageStore{db: db}
}

// checksum returns the xxhash of data as hex.
func checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Put stores img under key, replacing any previous image with that key.
func (s *ImageStore) Put(ctx context.Context, key string, img *xhsnote.Image) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "image key required")
	}
	if img == nil || len(img.Data) == 0 {
		return "", xhsnote.Errorf(xhsnote.EINVALID, "image data required")
	}

	noteID, _, _ := strings.Cut(key, "/")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (key, id, note_id, url, content_type, data, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			content_type = excluded.content_type,
			data = excluded.data,
			checksum = excluded.checksum,
			created_at = excluded.created_at
	`, key, uuid.New().String(), noteID, img.URL, img.ContentType, img.Data, checksum(img.Data),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return RefPrefix + key, nil
}

// Get retrieves the image stored under key. A reference returned by Put is
// accepted as well. Returns EINTERNAL if the stored bytes fail their checksum.
func (s *ImageStore) Get(ctx context.Context, key string) (*xhsnote.Image, error) {
	key = strings.TrimPrefix(key, RefPrefix)

	var img xhsnote.Image
	var sum string
	err := s.db.QueryRowContext(ctx, `
		SELECT url, content_type, data, checksum
		FROM images
		WHERE key = ?
	`, key).Scan(&img.URL, &img.ContentType, &img.Data, &sum)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, xhsnote.Errorf(xhsnote.ENOTFOUND, "image %q not found", key)
	}
	if err != nil {
		return nil, err
	}
	if checksum(img.Data) != sum {
		return nil, xhsnote.Errorf(xhsnote.EINTERNAL, "image %q is corrupt", key)
	}
	return &img, nil
}
