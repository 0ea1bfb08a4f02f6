package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"stock-board/internal/entity"

	"github.com/shopspring/decimal"
)

// NewMemoryPostRepository creates a PostRepository backed by a map. It keeps the
// same semantics as the GORM repository and is used by tests and by the
// "memory" database driver.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{
		posts: make(map[uint]entity.Post),
		now:   time.Now,
	}
}

type memoryPostRepository struct {
	mu     sync.RWMutex
	posts  map[uint]entity.Post
	nextID uint
	now    func() time.Time
}

func (r *memoryPostRepository) FindAll(ctx context.Context) ([]entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(entity.PostFilter{}), nil
}

func (r *memoryPostRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

func (r *memoryPostRepository) FindPage(ctx context.Context, offset, limit int, filter entity.PostFilter) ([]entity.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.sorted(filter)
	total := int64(len(matched))
	if offset >= len(matched) {
		return []entity.Post{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memoryPostRepository) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	post.ID = r.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	if post.Sentiment == "" {
		post.Sentiment = entity.SentimentNeutral
	}
	if post.PositionType == "" {
		post.PositionType = entity.PositionHold
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *memoryPostRepository) CreateBatch(ctx context.Context, posts []entity.Post, batchSize int) error {
	for i := range posts {
		if err := r.Create(ctx, &posts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryPostRepository) Update(ctx context.Context, id uint, patch entity.PostPatch) (*entity.Post, error) {
	return r.mutate(id, patch.Apply)
}

func (r *memoryPostRepository) Delete(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func (r *memoryPostRepository) IncrementViewCount(ctx context.Context, id uint) (*entity.Post, error) {
	return r.mutate(id, func(post *entity.Post) {
		post.ViewCount++
	})
}

func (r *memoryPostRepository) UpdateLikeCount(ctx context.Context, id uint, delta int) (*entity.Post, error) {
	return r.mutate(id, func(post *entity.Post) {
		post.LikeCount += delta
		if post.LikeCount < 0 {
			post.LikeCount = 0
		}
	})
}

type trendKey struct {
	code string
	name string
	// hasName separates a NULL stock name from an empty one, as GROUP BY does.
	hasName bool
}

type trendAcc struct {
	summary     entity.StockTrendSummary
	targetSum   decimal.Decimal
	targetCount int64
}

func (r *memoryPostRepository) FindTrendingStocks(ctx context.Context, query entity.TrendingQuery) ([]entity.StockTrendSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	since := r.now().AddDate(0, 0, -query.Days)
	groups := map[trendKey]*trendAcc{}

	for _, post := range r.posts {
		if post.StockCode == nil || *post.StockCode == "" || post.CreatedAt.Before(since) {
			continue
		}

		key := trendKey{code: *post.StockCode}
		if post.StockName != nil {
			key.name, key.hasName = *post.StockName, true
		}

		acc, ok := groups[key]
		if !ok {
			acc = &trendAcc{summary: entity.StockTrendSummary{
				StockCode: key.code,
				StockName: post.StockName,
			}}
			groups[key] = acc
		}

		acc.summary.PostCount++
		switch post.Sentiment {
		case entity.SentimentBullish:
			acc.summary.BullishCount++
		case entity.SentimentNeutral:
			acc.summary.NeutralCount++
		case entity.SentimentBearish:
			acc.summary.BearishCount++
		}
		if post.TargetPrice.Valid {
			acc.targetSum = acc.targetSum.Add(post.TargetPrice.Decimal)
			acc.targetCount++
		}
		if post.CreatedAt.After(acc.summary.LastPostedAt) {
			acc.summary.LastPostedAt = post.CreatedAt
		}
	}

	trends := make([]entity.StockTrendSummary, 0, len(groups))
	for _, acc := range groups {
		if acc.targetCount > 0 {
			acc.summary.AvgTargetPrice = decimal.NewNullDecimal(acc.targetSum.Div(decimal.NewFromInt(acc.targetCount)))
		}
		trends = append(trends, acc.summary)
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].PostCount != trends[j].PostCount {
			return trends[i].PostCount > trends[j].PostCount
		}
		return trends[i].LastPostedAt.After(trends[j].LastPostedAt)
	})

	if len(trends) > query.Limit {
		trends = trends[:query.Limit]
	}
	return trends, nil
}

func (r *memoryPostRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *memoryPostRepository) mutate(id uint, fn func(post *entity.Post)) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	fn(&post)
	post.UpdatedAt = r.now()
	r.posts[id] = post
	return &post, nil
}

// sorted returns posts matching filter, newest first. Callers hold the lock.
func (r *memoryPostRepository) sorted(filter entity.PostFilter) []entity.Post {
	posts := make([]entity.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if filter.Sentiment != "" && post.Sentiment != filter.Sentiment {
			continue
		}
		if filter.PositionType != "" && post.PositionType != filter.PositionType {
			continue
		}
		if filter.StockCode != "" && (post.StockCode == nil || *post.StockCode != filter.StockCode) {
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}
