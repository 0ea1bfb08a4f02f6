package seed

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := Generate(rand.New(rand.NewSource(42)), 200, now)
	require.Len(t, posts, 200)

	withStock := 0
	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.NotEmpty(t, p.Author)
		assert.True(t, p.Sentiment.IsValid())
		assert.True(t, p.PositionType.IsValid())
		assert.False(t, p.CreatedAt.After(now))
		assert.False(t, p.CreatedAt.Before(now.AddDate(0, 0, -181)))
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)

		if p.StockCode != nil {
			withStock++
			require.NotNil(t, p.StockName)
			assert.Contains(t, p.Title, *p.StockCode)
		} else {
			assert.False(t, p.EntryPrice.Valid)
			assert.False(t, p.TargetPrice.Valid)
		}
		if p.EntryPrice.Valid {
			assert.True(t, p.EntryPrice.Decimal.IsPositive())
		}
	}
	assert.InDelta(t, 140, withStock, 30)
}

func TestRun(t *testing.T) {
	repo := repository.NewMemoryPostRepository()

	err := Run(context.Background(), repo, 60, rand.New(rand.NewSource(7)), logger.NewNop())
	require.NoError(t, err)

	posts, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 60)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}

	_, total, err := repo.FindPage(context.Background(), 0, 10, entity.PostFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 60, total)
}
