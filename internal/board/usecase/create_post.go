package usecase

import (
	"context"

	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
)

// CreatePostInput carries the fields a client may set on a new post.
type CreatePostInput struct {
	Title        string
	Content      string
	Author       string
	StockCode    *string
	StockName    *string
	Sentiment    entity.Sentiment
	PositionType entity.PositionType
	EntryPrice   *float64
	TargetPrice  *float64
}

// CreatePostUseCase validates and stores a new post.
type CreatePostUseCase struct {
	repo    repository.PostRepository
	changes *postChanges
	logger  *logger.Logger
}

// NewCreatePostUseCase creates a new CreatePostUseCase.
func NewCreatePostUseCase(repo repository.PostRepository, changes *postChanges, log *logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{repo: repo, changes: changes, logger: log}
}

// Execute validates input, normalizes it and persists the post.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*entity.Post, error) {
	post, err := uc.normalize(input)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, post); err != nil {
		uc.logger.Error("Failed to create post", logger.ErrorField(err))
		return nil, err
	}

	uc.logger.Info("Post created", logger.Field("post_id", post.ID))
	uc.changes.record(ctx, event.PostCreated, post)
	return post, nil
}

func (uc *CreatePostUseCase) normalize(input CreatePostInput) (*entity.Post, error) {
	title, err := requiredText("title", input.Title, entity.MaxTitleLength)
	if err != nil {
		return nil, err
	}
	content, err := requiredText("content", input.Content, 0)
	if err != nil {
		return nil, err
	}
	author, err := requiredText("author", input.Author, entity.MaxAuthorLength)
	if err != nil {
		return nil, err
	}
	stockCode, err := optionalText("stock code", input.StockCode, entity.MaxStockCodeLength)
	if err != nil {
		return nil, err
	}
	stockName, err := optionalText("stock name", input.StockName, entity.MaxStockNameLength)
	if err != nil {
		return nil, err
	}
	entryPrice, err := price("entry price", input.EntryPrice)
	if err != nil {
		return nil, err
	}
	targetPrice, err := price("target price", input.TargetPrice)
	if err != nil {
		return nil, err
	}

	sentiment := input.Sentiment
	if sentiment == "" {
		sentiment = entity.SentimentNeutral
	} else if !sentiment.IsValid() {
		return nil, validationErrorf("invalid sentiment %q", sentiment)
	}

	positionType := input.PositionType
	if positionType == "" {
		positionType = entity.PositionHold
	} else if !positionType.IsValid() {
		return nil, validationErrorf("invalid position type %q", positionType)
	}

	return &entity.Post{
		Title:        title,
		Content:      content,
		Author:       author,
		StockCode:    stockCode,
		StockName:    stockName,
		Sentiment:    sentiment,
		PositionType: positionType,
		EntryPrice:   entryPrice,
		TargetPrice:  targetPrice,
	}, nil
}
