package repository

import (
	"testing"
	"time"

	"stock-board/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost port=5432 user=board dbname=board sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestApplyPostFilter(t *testing.T) {
	db := newDryRunDB(t)

	tests := []struct {
		name     string
		filter   entity.PostFilter
		contains []string
		absent   []string
	}{
		{
			name:   "no filter",
			filter: entity.PostFilter{},
			absent: []string{"WHERE"},
		},
		{
			name:     "sentiment only",
			filter:   entity.PostFilter{Sentiment: entity.SentimentBullish},
			contains: []string{"WHERE sentiment = 'bullish'"},
			absent:   []string{"stock_code", "position_type"},
		},
		{
			name: "all filters are combined with AND",
			filter: entity.PostFilter{
				Sentiment:    entity.SentimentBearish,
				StockCode:    "005930",
				PositionType: entity.PositionSell,
			},
			contains: []string{"sentiment = 'bearish' AND stock_code = '005930' AND position_type = 'sell'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var posts []entity.Post
				return applyPostFilter(tx.Model(&entity.Post{}), tt.filter).Find(&posts)
			})
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			for _, fragment := range tt.absent {
				assert.NotContains(t, sql, fragment)
			}
		})
	}
}

func TestLikeCountExpr_FloorsAtZero(t *testing.T) {
	db := newDryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&entity.Post{}).Where("id = ?", 7).Updates(map[string]interface{}{
			"like_count": likeCountExpr(-1),
		})
	})

	assert.Contains(t, sql, `UPDATE "posts" SET`)
	assert.Contains(t, sql, "GREATEST(like_count + -1, 0)")
	assert.Contains(t, sql, "id = 7")
}

func TestPatchColumns(t *testing.T) {
	title := "new title"
	empty := ""
	sentiment := entity.SentimentBullish

	cols := patchColumns(entity.PostPatch{
		Title:     &title,
		StockCode: &empty,
		Sentiment: &sentiment,
	})

	assert.Equal(t, map[string]interface{}{
		"title":      "new title",
		"stock_code": nil,
		"sentiment":  "bullish",
	}, cols)
	assert.Empty(t, patchColumns(entity.PostPatch{}))
}

func TestTrendingStocksStatement(t *testing.T) {
	db := newDryRunDB(t)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return trendingStocksStatement(tx, entity.TrendingQuery{Limit: 5, Days: 7}, now)
	})

	for _, fragment := range []string{
		"COUNT(CASE WHEN sentiment = 'bullish' THEN 1 END) AS bullish_count",
		"COUNT(CASE WHEN sentiment = 'neutral' THEN 1 END) AS neutral_count",
		"COUNT(CASE WHEN sentiment = 'bearish' THEN 1 END) AS bearish_count",
		"AVG(target_price) AS avg_target_price",
		"WHERE stock_code IS NOT NULL",
		"AND created_at >= '2026-10-08 09:00:00'",
		"GROUP BY stock_code, stock_name",
		"ORDER BY post_count DESC, last_posted_at DESC",
		"LIMIT 5",
	} {
		assert.Contains(t, sql, fragment)
	}

	wider := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return trendingStocksStatement(tx, entity.TrendingQuery{Limit: 20, Days: 90}, now)
	})
	assert.Contains(t, wider, "AND created_at >= '2026-07-17 09:00:00'")
	assert.Contains(t, wider, "LIMIT 20")
}

func TestUpdatePostStatement_IncrementsViewCount(t *testing.T) {
	db := newDryRunDB(t)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return updatePostStatement(tx, 7, viewCountColumns(), now)
	})

	assert.Contains(t, sql, `UPDATE "posts" SET`)
	assert.Contains(t, sql, `"view_count"=view_count + 1`)
	assert.Contains(t, sql, `"updated_at"='2026-10-15 09:00:00'`)
	assert.Contains(t, sql, "WHERE id = 7")
	assert.NotContains(t, sql, "like_count")
}

func TestUpdatePostStatement_Patch(t *testing.T) {
	db := newDryRunDB(t)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	title := "new title"
	blank := ""

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return updatePostStatement(tx, 3, patchColumns(entity.PostPatch{Title: &title, StockName: &blank}), now)
	})

	assert.Contains(t, sql, `"title"='new title'`)
	assert.Contains(t, sql, `"stock_name"=NULL`)
	assert.Contains(t, sql, `"updated_at"='2026-10-15 09:00:00'`)
	assert.Contains(t, sql, "WHERE id = 3")
}
