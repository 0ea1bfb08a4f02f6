package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-board/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPostNotFound is returned when no post matches the requested id.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the data operations on posts.
type PostRepository interface {
	FindAll(ctx context.Context) ([]entity.Post, error)
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	FindPage(ctx context.Context, offset, limit int, filter entity.PostFilter) ([]entity.Post, int64, error)
	Create(ctx context.Context, post *entity.Post) error
	CreateBatch(ctx context.Context, posts []entity.Post, batchSize int) error
	Update(ctx context.Context, id uint, patch entity.PostPatch) (*entity.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
	IncrementViewCount(ctx context.Context, id uint) (*entity.Post, error)
	UpdateLikeCount(ctx context.Context, id uint, delta int) (*entity.Post, error)
	FindTrendingStocks(ctx context.Context, query entity.TrendingQuery) ([]entity.StockTrendSummary, error)
	Ping(ctx context.Context) error
}

// NewPostRepository creates a new GORM-based post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, now: time.Now}
}

type postRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// FindAll retrieves every post, newest first.
func (r *postRepository) FindAll(ctx context.Context) ([]entity.Post, error) {
	var posts []entity.Post
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID retrieves a post by its ID.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindPage retrieves one page of posts matching filter together with the total match count.
func (r *postRepository) FindPage(ctx context.Context, offset, limit int, filter entity.PostFilter) ([]entity.Post, int64, error) {
	var total int64
	if err := applyPostFilter(r.db.WithContext(ctx).Model(&entity.Post{}), filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := []entity.Post{}
	err := applyPostFilter(r.db.WithContext(ctx), filter).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find posts page: %w", err)
	}

	return posts, total, nil
}

// Create inserts a new post; the database assigns the id and timestamps.
func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CreateBatch inserts posts in chunks of batchSize rows.
func (r *postRepository) CreateBatch(ctx context.Context, posts []entity.Post, batchSize int) error {
	if len(posts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&posts, batchSize).Error; err != nil {
		return fmt.Errorf("create posts in batches: %w", err)
	}
	return nil
}

// Update applies only the fields present in patch.
func (r *postRepository) Update(ctx context.Context, id uint, patch entity.PostPatch) (*entity.Post, error) {
	return r.updateAndReload(ctx, id, patchColumns(patch))
}

// Delete hard-deletes a post and reports whether a row was removed.
func (r *postRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entity.Post{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementViewCount atomically bumps the view counter by one.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) (*entity.Post, error) {
	return r.updateAndReload(ctx, id, viewCountColumns())
}

// UpdateLikeCount atomically adds delta to the like counter, flooring at zero.
func (r *postRepository) UpdateLikeCount(ctx context.Context, id uint, delta int) (*entity.Post, error) {
	return r.updateAndReload(ctx, id, map[string]interface{}{
		"like_count": likeCountExpr(delta),
	})
}

const trendingStocksQuery = `
	SELECT
		stock_code,
		stock_name,
		COUNT(*) AS post_count,
		COUNT(CASE WHEN sentiment = ? THEN 1 END) AS bullish_count,
		COUNT(CASE WHEN sentiment = ? THEN 1 END) AS neutral_count,
		COUNT(CASE WHEN sentiment = ? THEN 1 END) AS bearish_count,
		AVG(target_price) AS avg_target_price,
		MAX(created_at) AS last_posted_at
	FROM posts
	WHERE stock_code IS NOT NULL
	AND created_at >= ?
	GROUP BY stock_code, stock_name
	ORDER BY post_count DESC, last_posted_at DESC
	LIMIT ?`

// FindTrendingStocks groups recent posts by stock and returns the most discussed ones.
func (r *postRepository) FindTrendingStocks(ctx context.Context, query entity.TrendingQuery) ([]entity.StockTrendSummary, error) {
	var rows []entity.StockTrendSummary
	err := trendingStocksStatement(r.db.WithContext(ctx), query, r.now()).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find trending stocks: %w", err)
	}

	trends := make([]entity.StockTrendSummary, 0, len(rows))
	for _, row := range rows {
		if row.StockCode == "" {
			continue
		}
		trends = append(trends, row)
	}
	return trends, nil
}

// Ping checks the underlying connection.
func (r *postRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// updateAndReload runs a single UPDATE for id and returns the fresh row. Both
// statements share a transaction so the returned counters match the write.
func (r *postRepository) updateAndReload(ctx context.Context, id uint, updates map[string]interface{}) (*entity.Post, error) {
	now := r.now()

	var post entity.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := updatePostStatement(tx, id, updates, now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return tx.First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// trendingStocksStatement binds the three sentiments, the window start and the
// limit, in that order. The cutoff is computed here so the same SQL runs on
// both dialects.
func trendingStocksStatement(tx *gorm.DB, query entity.TrendingQuery, now time.Time) *gorm.DB {
	return tx.Raw(trendingStocksQuery,
		string(entity.SentimentBullish),
		string(entity.SentimentNeutral),
		string(entity.SentimentBearish),
		now.AddDate(0, 0, -query.Days),
		query.Limit,
	)
}

// updatePostStatement runs the UPDATE for id, stamping updated_at with now.
func updatePostStatement(tx *gorm.DB, id uint, updates map[string]interface{}, now time.Time) *gorm.DB {
	updates["updated_at"] = now
	return tx.Model(&entity.Post{}).Where("id = ?", id).Updates(updates)
}

func viewCountColumns() map[string]interface{} {
	return map[string]interface{}{
		"view_count": gorm.Expr("view_count + ?", 1),
	}
}

func applyPostFilter(tx *gorm.DB, filter entity.PostFilter) *gorm.DB {
	qFilter := []string{}
	qFilterParam := []interface{}{}

	if filter.Sentiment != "" {
		qFilter = append(qFilter, "sentiment = ?")
		qFilterParam = append(qFilterParam, string(filter.Sentiment))
	}

	if filter.StockCode != "" {
		qFilter = append(qFilter, "stock_code = ?")
		qFilterParam = append(qFilterParam, filter.StockCode)
	}

	if filter.PositionType != "" {
		qFilter = append(qFilter, "position_type = ?")
		qFilterParam = append(qFilterParam, string(filter.PositionType))
	}

	if len(qFilter) == 0 {
		return tx
	}
	return tx.Where(strings.Join(qFilter, " AND "), qFilterParam...)
}

func likeCountExpr(delta int) clause.Expr {
	return gorm.Expr("GREATEST(like_count + ?, 0)", delta)
}

func patchColumns(patch entity.PostPatch) map[string]interface{} {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Author != nil {
		updates["author"] = *patch.Author
	}
	if patch.StockCode != nil {
		updates["stock_code"] = nullableString(*patch.StockCode)
	}
	if patch.StockName != nil {
		updates["stock_name"] = nullableString(*patch.StockName)
	}
	if patch.Sentiment != nil {
		updates["sentiment"] = string(*patch.Sentiment)
	}
	if patch.PositionType != nil {
		updates["position_type"] = string(*patch.PositionType)
	}
	if patch.EntryPrice != nil {
		updates["entry_price"] = *patch.EntryPrice
	}
	if patch.TargetPrice != nil {
		updates["target_price"] = *patch.TargetPrice
	}
	return updates
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
