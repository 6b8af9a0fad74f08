package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xhsnote"
	main "github.com/fwojciec/xhsnote/cmd/xhsnote"
	"github.com/fwojciec/xhsnote/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWith(key string, img *xhsnote.Image) *mock.ImageStore {
	return &mock.ImageStore{
		GetFn: func(_ context.Context, k string) (*xhsnote.Image, error) {
			if k != key {
				return nil, xhsnote.Errorf(xhsnote.ENOTFOUND, "image %q not found", k)
			}
			return img, nil
		},
	}
}

func TestImageCmd_Run(t *testing.T) {
	t.Parallel()

	img := &xhsnote.Image{ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n")}

	t.Run("writes image bytes to stdout", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Images: storeWith("abc123/1.png", img),
		}

		err := (&main.ImageCmd{Key: "abc123/1.png"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, img.Data, stdout.Bytes())
	})

	t.Run("writes image bytes to a file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "out.png")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Images: storeWith("abc123/1.png", img),
		}

		err := (&main.ImageCmd{Key: "abc123/1.png", Out: out}).Run(deps)

		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, img.Data, data)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "image/png")
	})

	t.Run("reports a missing image", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Images: storeWith("abc123/1.png", img),
		}

		err := (&main.ImageCmd{Key: "abc123/2.png"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, xhsnote.ENOTFOUND, xhsnote.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})
}
