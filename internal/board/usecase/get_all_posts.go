package usecase

import (
	"context"

	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
)

// GetAllPostsUseCase lists every post, newest first.
type GetAllPostsUseCase struct {
	repo   repository.PostRepository
	logger *logger.Logger
}

// NewGetAllPostsUseCase creates a new GetAllPostsUseCase.
func NewGetAllPostsUseCase(repo repository.PostRepository, log *logger.Logger) *GetAllPostsUseCase {
	return &GetAllPostsUseCase{repo: repo, logger: log}
}

func (uc *GetAllPostsUseCase) Execute(ctx context.Context) ([]entity.Post, error) {
	posts, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to get all posts", logger.ErrorField(err))
		return nil, err
	}
	return posts, nil
}
