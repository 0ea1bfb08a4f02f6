package repository

import (
	"context"
	"testing"
	"time"

	"stock-board/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedPost(t *testing.T, repo PostRepository, post entity.Post) entity.Post {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &post))
	return post
}

func TestMemoryPostRepository_FindPageFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	seedPost(t, repo, entity.Post{Title: "a", Content: "c", Author: "x", StockCode: strPtr("005930"), Sentiment: entity.SentimentBullish, PositionType: entity.PositionBuy})
	seedPost(t, repo, entity.Post{Title: "b", Content: "c", Author: "x", StockCode: strPtr("005930"), Sentiment: entity.SentimentBullish, PositionType: entity.PositionHold})
	seedPost(t, repo, entity.Post{Title: "c", Content: "c", Author: "x", StockCode: strPtr("000660"), Sentiment: entity.SentimentBullish, PositionType: entity.PositionBuy})
	seedPost(t, repo, entity.Post{Title: "d", Content: "c", Author: "x", Sentiment: entity.SentimentBearish, PositionType: entity.PositionSell})

	items, total, err := repo.FindPage(ctx, 0, 10, entity.PostFilter{Sentiment: entity.SentimentBullish})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, item := range items {
		assert.Equal(t, entity.SentimentBullish, item.Sentiment)
	}

	items, total, err = repo.FindPage(ctx, 0, 10, entity.PostFilter{
		Sentiment:    entity.SentimentBullish,
		PositionType: entity.PositionBuy,
		StockCode:    "005930",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)

	items, total, err = repo.FindPage(ctx, 2, 10, entity.PostFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, items, 2)

	items, _, err = repo.FindPage(ctx, 10, 10, entity.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryPostRepository_NewestFirst(t *testing.T) {
	repo := NewMemoryPostRepository()
	now := time.Now()

	seedPost(t, repo, entity.Post{Title: "old", CreatedAt: now.Add(-time.Hour)})
	seedPost(t, repo, entity.Post{Title: "new", CreatedAt: now})

	posts, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Title)
	assert.Equal(t, "old", posts[1].Title)
}

func TestMemoryPostRepository_Counters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	post := seedPost(t, repo, entity.Post{Title: "a"})

	updated, err := repo.UpdateLikeCount(ctx, post.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.LikeCount)

	_, err = repo.UpdateLikeCount(ctx, post.ID, 1)
	require.NoError(t, err)
	updated, err = repo.UpdateLikeCount(ctx, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.LikeCount)

	updated, err = repo.IncrementViewCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ViewCount)

	_, err = repo.IncrementViewCount(ctx, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = repo.UpdateLikeCount(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestMemoryPostRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	post := seedPost(t, repo, entity.Post{
		Title:      "a",
		StockCode:  strPtr("005930"),
		EntryPrice: decimal.NewNullDecimal(decimal.NewFromInt(100)),
	})

	title := "b"
	blank := ""
	updated, err := repo.Update(ctx, post.ID, entity.PostPatch{
		Title:      &title,
		StockCode:  &blank,
		EntryPrice: &decimal.NullDecimal{},
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Title)
	assert.Nil(t, updated.StockCode)
	assert.False(t, updated.EntryPrice.Valid)

	_, err = repo.Update(ctx, 999, entity.PostPatch{Title: &title})
	assert.ErrorIs(t, err, ErrPostNotFound)

	deleted, err := repo.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestMemoryPostRepository_FindTrendingStocks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	now := time.Now()
	samsung, hynix := strPtr("005930"), strPtr("000660")

	seedPost(t, repo, entity.Post{StockCode: samsung, StockName: strPtr("Samsung"), Sentiment: entity.SentimentBullish, TargetPrice: decimal.NewNullDecimal(decimal.NewFromInt(80000)), CreatedAt: now.Add(-time.Hour)})
	seedPost(t, repo, entity.Post{StockCode: samsung, StockName: strPtr("Samsung"), Sentiment: entity.SentimentBearish, TargetPrice: decimal.NewNullDecimal(decimal.NewFromInt(60000)), CreatedAt: now.Add(-2 * time.Hour)})
	seedPost(t, repo, entity.Post{StockCode: samsung, StockName: strPtr("Samsung"), Sentiment: entity.SentimentNeutral, CreatedAt: now.Add(-3 * time.Hour)})
	seedPost(t, repo, entity.Post{StockCode: hynix, StockName: strPtr("SK hynix"), Sentiment: entity.SentimentBullish, CreatedAt: now.Add(-time.Minute)})
	// Outside the window and without a stock code: both ignored.
	seedPost(t, repo, entity.Post{StockCode: hynix, StockName: strPtr("SK hynix"), CreatedAt: now.AddDate(0, 0, -30)})
	seedPost(t, repo, entity.Post{Sentiment: entity.SentimentBullish, CreatedAt: now})

	trends, err := repo.FindTrendingStocks(ctx, entity.TrendingQuery{Limit: 5, Days: 7})
	require.NoError(t, err)
	require.Len(t, trends, 2)

	top := trends[0]
	assert.Equal(t, "005930", top.StockCode)
	assert.EqualValues(t, 3, top.PostCount)
	assert.EqualValues(t, 1, top.BullishCount)
	assert.EqualValues(t, 1, top.NeutralCount)
	assert.EqualValues(t, 1, top.BearishCount)
	require.True(t, top.AvgTargetPrice.Valid)
	assert.True(t, top.AvgTargetPrice.Decimal.Equal(decimal.NewFromInt(70000)))
	assert.WithinDuration(t, now.Add(-time.Hour), top.LastPostedAt, time.Second)

	second := trends[1]
	assert.Equal(t, "000660", second.StockCode)
	assert.EqualValues(t, 1, second.PostCount)
	assert.False(t, second.AvgTargetPrice.Valid)

	trends, err = repo.FindTrendingStocks(ctx, entity.TrendingQuery{Limit: 1, Days: 7})
	require.NoError(t, err)
	assert.Len(t, trends, 1)
}
