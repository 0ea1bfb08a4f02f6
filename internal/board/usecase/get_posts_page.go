package usecase

import (
	"context"
	"math"
	"strings"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/common"
	"stock-board/pkg/logger"
)

// GetPostsPageInput selects a page and optional filters.
type GetPostsPageInput struct {
	Page         int
	PageSize     int
	Sentiment    entity.Sentiment
	PositionType entity.PositionType
	StockCode    string
}

// PostsPage is one page of a filtered listing.
type PostsPage struct {
	Items    []entity.Post
	Total    int64
	Page     int
	PageSize int
}

// GetPostsPageUseCase lists posts page by page.
type GetPostsPageUseCase struct {
	repo   repository.PostRepository
	logger *logger.Logger
}

// NewGetPostsPageUseCase creates a new GetPostsPageUseCase.
func NewGetPostsPageUseCase(repo repository.PostRepository, log *logger.Logger) *GetPostsPageUseCase {
	return &GetPostsPageUseCase{repo: repo, logger: log}
}

// Execute clamps page to >= 1 and pageSize to [1, 100] before querying. Page
// is also capped so the row offset cannot overflow.
func (uc *GetPostsPageUseCase) Execute(ctx context.Context, input GetPostsPageInput) (*PostsPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > common.MaxPageSize {
		pageSize = common.MaxPageSize
	}
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	var filter entity.PostFilter
	if input.Sentiment.IsValid() {
		filter.Sentiment = input.Sentiment
	}
	if input.PositionType.IsValid() {
		filter.PositionType = input.PositionType
	}
	filter.StockCode = strings.TrimSpace(input.StockCode)

	offset := (page - 1) * pageSize
	items, total, err := uc.repo.FindPage(ctx, offset, pageSize, filter)
	if err != nil {
		uc.logger.Error("Failed to get posts page",
			logger.ErrorField(err),
			logger.IntField("page", page),
			logger.IntField("page_size", pageSize))
		return nil, err
	}

	return &PostsPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
