package usecase

import (
	"context"
	"errors"

	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/pkg/logger"
)

// ErrDeleteFailed is returned when the row existed but nothing was removed.
var ErrDeleteFailed = errors.New("failed to delete post")

// DeletePostUseCase hard-deletes a post.
type DeletePostUseCase struct {
	repo    repository.PostRepository
	changes *postChanges
	logger  *logger.Logger
}

// NewDeletePostUseCase creates a new DeletePostUseCase.
func NewDeletePostUseCase(repo repository.PostRepository, changes *postChanges, log *logger.Logger) *DeletePostUseCase {
	return &DeletePostUseCase{repo: repo, changes: changes, logger: log}
}

// Execute checks that the post exists and then removes it.
func (uc *DeletePostUseCase) Execute(ctx context.Context, id int64) error {
	if !validID(id) {
		return errInvalidPostID
	}

	post, err := uc.repo.FindByID(ctx, toPostID(id))
	if err != nil {
		err = notFoundOr(err)
		if err != errPostNotFound {
			uc.logger.Error("Failed to find post for delete", logger.ErrorField(err), logger.Field("post_id", id))
		}
		return err
	}

	deleted, err := uc.repo.Delete(ctx, post.ID)
	if err != nil {
		uc.logger.Error("Failed to delete post", logger.ErrorField(err), logger.Field("post_id", id))
		return err
	}
	if !deleted {
		uc.logger.Warn("Post vanished before delete", logger.Field("post_id", id))
		return ErrDeleteFailed
	}

	uc.logger.Info("Post deleted", logger.Field("post_id", id))
	uc.changes.record(ctx, event.PostDeleted, post)
	return nil
}
