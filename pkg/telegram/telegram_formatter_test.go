package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPostMessage(t *testing.T) {
	msg := FormatPostMessage(PostMessage{
		Kind:         "created",
		PostID:       12,
		Title:        "HBM_demand *up*",
		Author:       "kim",
		StockCode:    "000660",
		StockName:    "SK hynix",
		Sentiment:    "bullish",
		PositionType: "buy",
		At:           time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC),
	})

	assert.True(t, strings.HasPrefix(msg, "📝 *New post* #12"))
	assert.Contains(t, msg, "\n"+`HBM\_demand \*up\*`+"\n")
	assert.NotContains(t, msg, `*HBM`)
	assert.Contains(t, msg, "SK hynix (000660)")
	assert.Contains(t, msg, "😊 *Sentiment:* bullish")
	assert.Contains(t, msg, "2024-05-01 03:00 UTC")
	assert.NotContains(t, msg, "Likes")
}

func TestFormatPostMessage_Likes(t *testing.T) {
	msg := FormatPostMessage(PostMessage{Kind: "unliked", PostID: 3, Title: "t", Author: "a", Sentiment: "neutral", LikeCount: 4})

	assert.Contains(t, msg, "👍 *Likes changed* #3")
	assert.Contains(t, msg, "❤️ *Likes:* 4")
	assert.NotContains(t, msg, "📈")
	assert.False(t, strings.HasSuffix(msg, "\n"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "삼성…", Truncate("삼성전자", 3))
}

func TestFormatTrendingDigest(t *testing.T) {
	target := 81234.4
	msg := FormatTrendingDigest(7, []TrendLine{
		{StockCode: "005930", StockName: "Samsung Electronics", PostCount: 4, BullishCount: 3, NeutralCount: 1, AvgTargetPrice: &target},
		{StockCode: "000660", PostCount: 2, BearishCount: 2},
	})

	assert.Contains(t, msg, "last 7 days")
	assert.Contains(t, msg, "*1.* Samsung Electronics (005930): 4 posts")
	assert.Contains(t, msg, "avg target 81234")
	assert.Contains(t, msg, "*2.* 000660: 2 posts")

	assert.Contains(t, FormatTrendingDigest(3, nil), "No stock discussions")
}

func TestFormatTrendingDigest_EscapedNamesOutsideEntities(t *testing.T) {
	msg := FormatTrendingDigest(7, []TrendLine{{StockCode: "A_1", StockName: "Foo_Bar", PostCount: 1}})

	assert.Contains(t, msg, `*1.* Foo\_Bar (A\_1): 1 posts`)
	assert.NotContains(t, msg, `*Foo`)
}
