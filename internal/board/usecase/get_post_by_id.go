package usecase

import (
	"context"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
)

// GetPostByIdOptions tunes a detail read. The zero value records a view.
type GetPostByIdOptions struct {
	SkipViewCount bool
}

// GetPostByIdUseCase reads a single post, counting the view unless told otherwise.
type GetPostByIdUseCase struct {
	repo   repository.PostRepository
	logger *logger.Logger
}

// NewGetPostByIdUseCase creates a new GetPostByIdUseCase.
func NewGetPostByIdUseCase(repo repository.PostRepository, log *logger.Logger) *GetPostByIdUseCase {
	return &GetPostByIdUseCase{repo: repo, logger: log}
}

func (uc *GetPostByIdUseCase) Execute(ctx context.Context, id int64, opts GetPostByIdOptions) (*entity.Post, error) {
	if !validID(id) {
		return nil, errInvalidPostID
	}

	var (
		post *entity.Post
		err  error
	)
	if opts.SkipViewCount {
		post, err = uc.repo.FindByID(ctx, toPostID(id))
	} else {
		post, err = uc.repo.IncrementViewCount(ctx, toPostID(id))
	}
	if err != nil {
		err = notFoundOr(err)
		if err != errPostNotFound {
			uc.logger.Error("Failed to get post", logger.ErrorField(err), logger.Field("post_id", id))
		}
		return nil, err
	}
	return post, nil
}
