// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/query"
	"stock_api/internal/feature/stocks/usecase"
)

// CachingStockRepository decorates a StockRepository with Redis caching for
// the aggregate-heavy read paths. Every stock write invalidates the whole
// cache namespace so cached aggregates can never outlive the filtered view
// they were computed from; comment writes do the same through
// InvalidatingCommentRepository, which shares the namespace. The embedded
// repository serves everything that is not explicitly overridden.
type CachingStockRepository struct {
	usecase.StockRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingStockRepository decorates a StockRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "stocks".
func NewCachingStockRepository(rdb *redis.Client, ttl time.Duration, inner usecase.StockRepository, namespace string) *CachingStockRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "stocks"
	}
	return &CachingStockRepository{
		StockRepository: inner,
		rdb:             rdb,
		ttl:             ttl,
		namespace:       namespace,
	}
}

// filterKey renders a filter into a deterministic cache key fragment.
func (c *CachingStockRepository) filterKey(kind string, f query.Filter) string {
	b, err := json.Marshal(f)
	if err != nil {
		b = []byte("{}")
	}
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, b)
}

// getJSON reads a cached value into out, reporting whether it was present.
// Corrupted entries are deleted and treated as a miss.
func (c *CachingStockRepository) getJSON(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// setJSON stores a value in the cache (best effort).
func (c *CachingStockRepository) setJSON(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate removes every cache entry in this repository's namespace.
func (c *CachingStockRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	// Best effort: don't fail the write if cache deletion fails
	_ = deleteByPattern(ctx, c.rdb, c.namespace+":*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// Statistics serves the aggregate snapshot from cache when possible.
func (c *CachingStockRepository) Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error) {
	if c.rdb == nil {
		return c.StockRepository.Statistics(ctx, f)
	}
	key := c.filterKey("stats", f)
	var cached entity.StockStatistics
	if c.getJSON(ctx, key, &cached) {
		return &cached, nil
	}
	out, err := c.StockRepository.Statistics(ctx, f)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, key, out)
	return out, nil
}

// PriceRangeBuckets serves the price histogram from cache when possible.
func (c *CachingStockRepository) PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error) {
	if c.rdb == nil {
		return c.StockRepository.PriceRangeBuckets(ctx, f)
	}
	key := c.filterKey("buckets", f)
	var cached []entity.PriceRangeBucket
	if c.getJSON(ctx, key, &cached) {
		return cached, nil
	}
	out, err := c.StockRepository.PriceRangeBuckets(ctx, f)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, key, out)
	return out, nil
}

// CountByFirstLetter serves the first-letter histogram from cache when possible.
func (c *CachingStockRepository) CountByFirstLetter(ctx context.Context) (map[string]int, error) {
	if c.rdb == nil {
		return c.StockRepository.CountByFirstLetter(ctx)
	}
	key := c.namespace + ":letters"
	var cached map[string]int
	if c.getJSON(ctx, key, &cached) {
		return cached, nil
	}
	out, err := c.StockRepository.CountByFirstLetter(ctx)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, key, out)
	return out, nil
}

// Create delegates to the inner repository and invalidates cached aggregates.
func (c *CachingStockRepository) Create(ctx context.Context, s *entity.Stock) error {
	if err := c.StockRepository.Create(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Update delegates to the inner repository and invalidates cached aggregates.
func (c *CachingStockRepository) Update(ctx context.Context, id uint, patch usecase.StockPatch) (*entity.Stock, error) {
	out, err := c.StockRepository.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if out != nil {
		c.invalidate(ctx)
	}
	return out, nil
}

// Delete delegates to the inner repository and invalidates cached aggregates.
func (c *CachingStockRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := c.StockRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx)
	}
	return deleted, nil
}

// BulkUpdatePrices delegates to the inner repository and invalidates cached
// aggregates when at least one row changed.
func (c *CachingStockRepository) BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error) {
	updated, err := c.StockRepository.BulkUpdatePrices(ctx, updates)
	if err != nil {
		return false, err
	}
	if updated {
		c.invalidate(ctx)
	}
	return updated, nil
}
