package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/xhsnote"
	"github.com/fwojciec/xhsnote/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T, html string) *goquery.Page {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return &goquery.Page{Doc: doc, HTML: html}
}

func TestExtractMeta(t *testing.T) {
	t.Parallel()

	t.Run("reads open graph and platform tags", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<html><head>
<meta property="og:url" content="https://www.xiaohongshu.com/explore/abc">
<meta property="og:title" content="海边日落 - 小红书">
<meta name="description" content="今天的日落 #日落">
<meta name="keywords" content="日落,海边，旅行">
<meta property="og:image" content="https://img.example.com/1">
<meta property="og:image" content="//img.example.com/2">
<meta property="og:image" content="data:image/png;base64,AAAA">
<meta name="og:xhs:note_like" content="120">
<meta name="og:xhs:note_comment" content="8">
<meta name="og:xhs:note_collect" content="1万">
</head></html>`)

		rec := goquery.ExtractMeta(page)

		require.NotNil(t, rec)
		assert.Equal(t, "https://www.xiaohongshu.com/explore/abc", rec.URL)
		assert.Equal(t, "海边日落", rec.Title)
		assert.Equal(t, "今天的日落 #日落", rec.Content)
		assert.Equal(t, []string{"#日落", "#海边", "#旅行"}, rec.Hashtags)
		assert.Equal(t, []string{"https://img.example.com/1", "https://img.example.com/2"}, rec.Images)
		assert.Equal(t, xhsnote.Interaction{Likes: "120", Comments: "8", Collects: "1万"}, rec.InteractionInfo)
	})

	t.Run("falls back to og:description", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<meta name="description" content=""><meta property="og:description" content="og body">`)

		rec := goquery.ExtractMeta(page)

		require.NotNil(t, rec)
		assert.Equal(t, "og body", rec.Content)
	})

	t.Run("returns nil without meta tags", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, goquery.ExtractMeta(newPage(t, `<p>plain</p>`)))
	})
}

func TestExtractEmbedded(t *testing.T) {
	t.Parallel()

	t.Run("decodes desktop state with undefined values", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<html><body><script>window.__INITIAL_STATE__ = {"user":undefined,"note":{"firstNoteId":"n1","noteDetailMap":{"n1":{"note":{"noteId":"n1","title":"<b>标题</b>","desc":"正文 &amp; 更多 #话题[话题]#","tagList":[{"name":"话题"},{"name":"城市"}],"interactInfo":{"likedCount":"2.3万","commentCount":45,"collectedCount":null},"imageList":[{"urlDefault":"//sns-webpic.xhscdn.com/a/1"},{"url":"https://sns-webpic.xhscdn.com/a/2"},{"infoList":[{"url":"https://sns-webpic.xhscdn.com/a/3"}]}]}}}}};</script></body></html>`)

		rec := goquery.ExtractEmbedded(page)

		require.NotNil(t, rec)
		assert.Equal(t, "https://www.xiaohongshu.com/explore/n1", rec.URL)
		assert.Equal(t, "标题", rec.Title)
		assert.Equal(t, "正文 & 更多 #话题[话题]#", rec.Content)
		assert.Equal(t, []string{"#话题", "#城市"}, rec.Hashtags)
		assert.Equal(t, xhsnote.Interaction{Likes: "2.3万", Comments: "45"}, rec.InteractionInfo)
		assert.Equal(t, []string{
			"https://sns-webpic.xhscdn.com/a/1",
			"https://sns-webpic.xhscdn.com/a/2",
			"https://sns-webpic.xhscdn.com/a/3",
		}, rec.Images)
	})

	t.Run("decodes mobile state", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<script>window.__INITIAL_SSR_STATE__={"noteData":{"data":{"noteData":{"noteId":"m1","title":"移动端","desc":"body"}}}}</script>`)

		rec := goquery.ExtractEmbedded(page)

		require.NotNil(t, rec)
		assert.Equal(t, "移动端", rec.Title)
		assert.Equal(t, "https://www.xiaohongshu.com/explore/m1", rec.URL)
	})

	t.Run("picks the lowest key when first note id is missing", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<script>window.__INITIAL_STATE__={"note":{"noteDetailMap":{"zz":{"note":{"noteId":"zz","title":"Z"}},"aa":{"note":{"noteId":"aa","title":"A"}},"":{"note":{}}}}}</script>`)

		rec := goquery.ExtractEmbedded(page)

		require.NotNil(t, rec)
		assert.Equal(t, "A", rec.Title)
	})

	t.Run("returns nil for malformed state", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<script>window.__INITIAL_STATE__={"note":</script>`)

		assert.Nil(t, goquery.ExtractEmbedded(page))
	})

	t.Run("returns nil without state script", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<script>var x = 1;</script>`)

		assert.Nil(t, goquery.ExtractEmbedded(page))
	})
}

func TestExtractVisible(t *testing.T) {
	t.Parallel()

	t.Run("reads title body and counters from the note layout", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<html><body>
<div id="detail-title">  可见标题 </div>
<div id="detail-desc"><span>第一行</span>
<span>第二行   有空格</span></div>
<div class="buttons">
  <span class="like-wrapper"><span class="count">1.1万</span></span>
  <span class="collect-wrapper"><span class="count">收藏</span></span>
  <span class="chat-wrapper"><span class="count">36</span></span>
</div>
</body></html>`)

		rec := goquery.ExtractVisible(page)

		require.NotNil(t, rec)
		assert.Equal(t, "可见标题", rec.Title)
		assert.Equal(t, "第一行\n第二行 有空格", rec.Content)
		assert.Equal(t, "1.1万", rec.InteractionInfo.Likes)
		assert.Equal(t, "36", rec.InteractionInfo.Comments)
		assert.Empty(t, rec.InteractionInfo.Collects)
	})

	t.Run("reads labelled counters from the interaction bar", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<div class="interact-container">点赞 5 评论 2</div>`)

		rec := goquery.ExtractVisible(page)

		assert.Equal(t, xhsnote.Interaction{Likes: "5", Comments: "2"}, rec.InteractionInfo)
	})

	t.Run("falls back to the document title", func(t *testing.T) {
		t.Parallel()

		page := newPage(t, `<html><head><title>页面标题 - 小红书</title></head><body></body></html>`)

		rec := goquery.ExtractVisible(page)

		assert.Equal(t, "页面标题", rec.Title)
		assert.Empty(t, rec.Content)
	})
}
