package usecase

import (
	"fmt"
	"sync"
	"time"

	"stock-board/internal/entity"

	"github.com/patrickmn/go-cache"
)

// trendingCache memoizes trending aggregates for a short TTL. A nil cache is
// valid and never hits.
//
// Every flush bumps a generation. A result is only stored when it was loaded
// in the current generation, so a query that raced a mutation cannot
// repopulate the cache with pre-mutation rows.
type trendingCache struct {
	mu         sync.Mutex
	generation uint64
	store      *cache.Cache
}

func newTrendingCache(ttl time.Duration) *trendingCache {
	if ttl <= 0 {
		return nil
	}
	return &trendingCache{store: cache.New(ttl, 2*ttl)}
}

func trendingKey(query entity.TrendingQuery) string {
	return fmt.Sprintf("trending:%d:%d", query.Limit, query.Days)
}

// get returns the cached trends for query and the generation a miss should
// be stored under.
func (c *trendingCache) get(query entity.TrendingQuery) ([]entity.StockTrendSummary, uint64, bool) {
	if c == nil {
		return nil, 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.store.Get(trendingKey(query))
	if !ok {
		return nil, c.generation, false
	}
	return cloneTrends(v.([]entity.StockTrendSummary)), c.generation, true
}

func (c *trendingCache) set(query entity.TrendingQuery, trends []entity.StockTrendSummary, generation uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	c.store.SetDefault(trendingKey(query), cloneTrends(trends))
}

func (c *trendingCache) flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.store.Flush()
}
