package usecase

import (
	"context"
	"math"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/common"
	"stock-board/pkg/logger"
)

// GetTrendingStocksInput holds the raw limit and window. Nil or non-finite
// values fall back to the defaults.
type GetTrendingStocksInput struct {
	Limit *float64
	Days  *float64
}

// GetTrendingStocksUseCase returns the most discussed stocks of the recent window.
type GetTrendingStocksUseCase struct {
	repo   repository.PostRepository
	cache  *trendingCache
	logger *logger.Logger
}

// NewGetTrendingStocksUseCase creates a new GetTrendingStocksUseCase.
func NewGetTrendingStocksUseCase(repo repository.PostRepository, cache *trendingCache, log *logger.Logger) *GetTrendingStocksUseCase {
	return &GetTrendingStocksUseCase{repo: repo, cache: cache, logger: log}
}

func (uc *GetTrendingStocksUseCase) Execute(ctx context.Context, input GetTrendingStocksInput) ([]entity.StockTrendSummary, error) {
	query := TrendingQuery(input)

	trends, generation, ok := uc.cache.get(query)
	if ok {
		return trends, nil
	}

	trends, err := uc.repo.FindTrendingStocks(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to find trending stocks",
			logger.ErrorField(err),
			logger.IntField("limit", query.Limit),
			logger.IntField("days", query.Days))
		return nil, err
	}

	uc.cache.set(query, trends, generation)
	return trends, nil
}

// TrendingQuery clamps limit to [1, 20] (default 5) and days to [1, 90] (default 7).
func TrendingQuery(input GetTrendingStocksInput) entity.TrendingQuery {
	return entity.TrendingQuery{
		Limit: clampFloat(input.Limit, common.DefaultTrendingLimit, 1, common.MaxTrendingLimit),
		Days:  clampFloat(input.Days, common.DefaultTrendingDays, 1, common.MaxTrendingDays),
	}
}

func clampFloat(v *float64, def, min, max int) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	n := math.Floor(*v)
	if n < float64(min) {
		return min
	}
	if n > float64(max) {
		return max
	}
	return int(n)
}
