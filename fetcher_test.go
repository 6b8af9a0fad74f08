package xhsnote_test

import (
	"testing"

	"github.com/fwojciec/xhsnote"
	"github.com/stretchr/testify/assert"
)

func TestIsLoginWall(t *testing.T) {
	t.Parallel()

	assert.True(t, xhsnote.IsLoginWall("<div>请登录后继续浏览</div>"))
	assert.True(t, xhsnote.IsLoginWall("<p>登录后查看更多评论</p>"))
	assert.False(t, xhsnote.IsLoginWall(`<meta property="og:title" content="好物分享">`))
}
