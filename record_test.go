package xhsnote_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/xhsnote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("fills every missing field", func(t *testing.T) {
		t.Parallel()

		r := &xhsnote.Record{}
		r.Normalize()

		assert.Equal(t, xhsnote.DefaultTitle, r.Title)
		assert.Empty(t, r.Content)
		assert.Equal(t, "0", r.InteractionInfo.Likes)
		assert.Equal(t, "0", r.InteractionInfo.Comments)
		assert.Equal(t, "0", r.InteractionInfo.Collects)
		assert.Equal(t, []string{}, r.Hashtags)
		assert.Equal(t, []string{}, r.Images)
		assert.Equal(t, []string{}, r.SavedImages)
	})

	t.Run("keeps extracted values", func(t *testing.T) {
		t.Parallel()

		r := &xhsnote.Record{
			Title:           "周末去哪儿",
			InteractionInfo: xhsnote.Interaction{Likes: "1.2万"},
		}
		r.Normalize()
		r.Normalize()

		assert.Equal(t, "周末去哪儿", r.Title)
		assert.Equal(t, "1.2万", r.InteractionInfo.Likes)
		assert.Equal(t, "0", r.InteractionInfo.Comments)
	})

	t.Run("serializes all top-level fields", func(t *testing.T) {
		t.Parallel()

		r := &xhsnote.Record{}
		r.Normalize()

		b, err := json.Marshal(r)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		for _, key := range []string{"url", "title", "content", "hashtags", "interaction_info", "images", "saved_images"} {
			assert.Contains(t, m, key)
		}
		assert.Equal(t, []any{}, m["hashtags"])
	})
}

func TestRecord_LowConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record xhsnote.Record
		want   bool
	}{
		{name: "empty", record: xhsnote.Record{}, want: true},
		{name: "title only", record: xhsnote.Record{Title: "标题"}, want: false},
		{name: "content only", record: xhsnote.Record{Content: "正文"}, want: false},
		{name: "images only", record: xhsnote.Record{Images: []string{"https://a/1.jpg"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.record.LowConfidence())
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	t.Parallel()

	orig := &xhsnote.Record{
		Title:    "t",
		Hashtags: []string{"#a"},
		Images:   []string{"https://a/1.jpg"},
	}

	c := orig.Clone()
	c.Hashtags[0] = "#changed"
	c.Images = append(c.Images, "https://a/2.jpg")

	assert.Equal(t, []string{"#a"}, orig.Hashtags)
	assert.Equal(t, []string{"https://a/1.jpg"}, orig.Images)
	assert.Nil(t, c.SavedImages)
}
