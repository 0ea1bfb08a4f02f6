package usecase

import (
	"context"

	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
)

// ChangePostLikeUseCase likes (+1) or unlikes (-1) a post.
type ChangePostLikeUseCase struct {
	repo    repository.PostRepository
	changes *postChanges
	logger  *logger.Logger
}

// NewChangePostLikeUseCase creates a new ChangePostLikeUseCase.
func NewChangePostLikeUseCase(repo repository.PostRepository, changes *postChanges, log *logger.Logger) *ChangePostLikeUseCase {
	return &ChangePostLikeUseCase{repo: repo, changes: changes, logger: log}
}

// Execute adds delta to the like count; the count never drops below zero.
func (uc *ChangePostLikeUseCase) Execute(ctx context.Context, id int64, delta int) (*entity.Post, error) {
	if !validID(id) {
		return nil, errInvalidPostID
	}
	if delta != 1 && delta != -1 {
		return nil, validationErrorf("delta must be 1 or -1")
	}

	post, err := uc.repo.UpdateLikeCount(ctx, toPostID(id), delta)
	if err != nil {
		err = notFoundOr(err)
		if err != errPostNotFound {
			uc.logger.Error("Failed to change like count", logger.ErrorField(err), logger.Field("post_id", id), logger.IntField("delta", delta))
		}
		return nil, err
	}

	eventType := event.PostLiked
	if delta < 0 {
		eventType = event.PostUnliked
	}
	uc.changes.record(ctx, eventType, post)
	return post, nil
}
