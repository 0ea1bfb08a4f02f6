package usecase

import (
	"context"
	"time"

	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/internal/entity"
	"stock-board/pkg/logger"
)

// PostUseCases bundles every post operation. It is built once at startup and
// handed to the delivery layer.
type PostUseCases struct {
	Create      *CreatePostUseCase
	GetAll      *GetAllPostsUseCase
	GetByID     *GetPostByIdUseCase
	GetPage     *GetPostsPageUseCase
	Update      *UpdatePostUseCase
	Delete      *DeletePostUseCase
	ChangeLike  *ChangePostLikeUseCase
	GetTrending *GetTrendingStocksUseCase
}

// New wires all post use-cases around a single repository.
func New(repo repository.PostRepository, publisher event.Publisher, trendingCacheTTL time.Duration, log *logger.Logger) *PostUseCases {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	trending := newTrendingCache(trendingCacheTTL)
	changes := &postChanges{publisher: publisher, trending: trending, logger: log}

	return &PostUseCases{
		Create:      NewCreatePostUseCase(repo, changes, log),
		GetAll:      NewGetAllPostsUseCase(repo, log),
		GetByID:     NewGetPostByIdUseCase(repo, log),
		GetPage:     NewGetPostsPageUseCase(repo, log),
		Update:      NewUpdatePostUseCase(repo, changes, log),
		Delete:      NewDeletePostUseCase(repo, changes, log),
		ChangeLike:  NewChangePostLikeUseCase(repo, changes, log),
		GetTrending: NewGetTrendingStocksUseCase(repo, trending, log),
	}
}

// postChanges fans a persisted mutation out to the event stream and drops
// cached trending results.
type postChanges struct {
	publisher event.Publisher
	trending  *trendingCache
	logger    *logger.Logger
}

func (c *postChanges) record(ctx context.Context, eventType event.Type, post *entity.Post) {
	if c == nil {
		return
	}
	c.trending.flush()

	if err := c.publisher.Publish(ctx, event.NewPostEvent(eventType, post, time.Now())); err != nil {
		c.logger.Warn("Failed to publish post event",
			logger.ErrorField(err),
			logger.StringField("type", string(eventType)),
			logger.Field("post_id", post.ID))
	}
}

func validID(id int64) bool {
	return id > 0
}

func toPostID(id int64) uint {
	return uint(id)
}

func cloneTrends(trends []entity.StockTrendSummary) []entity.StockTrendSummary {
	out := make([]entity.StockTrendSummary, len(trends))
	copy(out, trends)
	return out
}
