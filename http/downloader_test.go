package http_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/xhsnote"
	xhshttp "github.com/fwojciec/xhsnote/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("downloads and sniffs image", func(t *testing.T) {
		t.Parallel()

		data := pngBytes(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Wrong header on purpose: the type comes from the bytes.
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(data)
		}))
		defer server.Close()

		dl := xhshttp.NewDownloader()
		img, err := dl.Download(context.Background(), server.URL+"/img.png")

		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, data, img.Data)
		assert.Equal(t, server.URL+"/img.png", img.URL)
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>blocked</body></html>"))
		}))
		defer server.Close()

		dl := xhshttp.NewDownloader()
		_, err := dl.Download(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, xhsnote.EFETCH, xhsnote.ErrorCode(err))
	})

	t.Run("rejects oversized image", func(t *testing.T) {
		t.Parallel()

		data := pngBytes(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(data)
		}))
		defer server.Close()

		dl := xhshttp.NewDownloader(xhshttp.WithMaxImageBytes(10))
		_, err := dl.Download(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("returns error for non-200", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		dl := xhshttp.NewDownloader(xhshttp.WithDownloadRetries(0))
		_, err := dl.Download(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})
}

var _ xhsnote.ImageDownloader = (*xhshttp.Downloader)(nil)
