package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/xhsnote"
	main "github.com/fwojciec/xhsnote/cmd/xhsnote"
	"github.com/fwojciec/xhsnote/goquery"
	"github.com/fwojciec/xhsnote/mock"
	"github.com/fwojciec/xhsnote/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes the record as indented JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Pipeline: &pipeline.Pipeline{
				Resolver: &mock.Resolver{},
				Fetcher:  &mock.Fetcher{},
				Parser:   goquery.NewParser(),
			},
		}
		cmd := &main.ExtractCmd{ShareText: `<meta property="og:title" content="海边 & 日落"><meta name="description" content="周末 #海边">`}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "\n  \"title\": \"海边 & 日落\"")

		var rec xhsnote.Record
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
		assert.Equal(t, []string{"#海边"}, rec.Hashtags)
		assert.Equal(t, "0", rec.InteractionInfo.Likes)
		assert.Equal(t, []string{}, rec.SavedImages)
	})

	t.Run("writes an error object and returns the error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Pipeline: &pipeline.Pipeline{
				Resolver: &mock.Resolver{},
				Fetcher:  &mock.Fetcher{},
				Parser:   goquery.NewParser(),
			},
		}
		cmd := &main.ExtractCmd{ShareText: "no link here"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, xhsnote.EUNRECOGNIZED, xhsnote.ErrorCode(err))

		var out map[string]string
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
		assert.Equal(t, xhsnote.ErrorMessage(err), out["error"])
	})
}
