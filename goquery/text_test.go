package goquery_test

import (
	"testing"

	"github.com/fwojciec/xhsnote/goquery"
	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{"space separated", []string{"#tag1 #tag2"}, []string{"#tag1", "#tag2"}},
		{"topic suffix is cut", []string{"#旅行[话题]# 出发"}, []string{"#旅行"}},
		{"adjacent tags", []string{"#a#b"}, []string{"#a", "#b"}},
		{"duplicates across texts", []string{"#a x", "#b #a"}, []string{"#a", "#b"}},
		{"lone hash", []string{"# not a tag"}, []string{}},
		{"trailing ellipsis", []string{"...#tag1 #tag2..."}, []string{"#tag1", "#tag2"}},
		{"full-width punctuation", []string{"我在#旅行，#美食。"}, []string{"#旅行", "#美食"}},
		{"url fragment", []string{"见 https://example.com/page#section #旅行"}, []string{"#旅行"}},
		{"inline anchor", []string{"page#top and #real"}, []string{"#real"}},
		{"punctuation only", []string{"#！"}, []string{}},
		{"no text", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.ExtractHashtags(tt.texts...))
		})
	}
}

func TestExtractCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                      string
		text                      string
		likes, comments, collects string
	}{
		{"label first", "点赞 12 评论 3 收藏 5", "12", "3", "5"},
		{"full-width colon", "赞：1.2万 评论：88", "1.2万", "88", ""},
		{"number first", "10w+赞", "10w+", "", ""},
		{"number first after punctuation", "99评论，7收藏", "", "99", "7"},
		{"english labels", "likes: 3k comments 4 collects: 5", "3k", "4", "5"},
		{"label first wins over number first", "5赞 点赞 9", "9", "", ""},
		{"no labels", "12 3 5", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			likes, comments, collects := goquery.ExtractCounts(tt.text)
			assert.Equal(t, tt.likes, likes, "likes")
			assert.Equal(t, tt.comments, comments, "comments")
			assert.Equal(t, tt.collects, collects, "collects")
		})
	}
}
