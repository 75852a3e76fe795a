package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/query"
	"stock_api/internal/feature/stocks/usecase"
)

// stubStockRepository counts calls to the read paths the cache decorates.
// Embedding the interface keeps the stub small; undecorated methods are
// never reached in these tests.
type stubStockRepository struct {
	usecase.StockRepository

	statisticsCalls int
	bucketsCalls    int
	lettersCalls    int

	stats   *entity.StockStatistics
	buckets []entity.PriceRangeBucket
	letters map[string]int

	updateResult *entity.Stock
	bulkResult   bool
}

func (s *stubStockRepository) Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error) {
	s.statisticsCalls++
	return s.stats, nil
}

func (s *stubStockRepository) PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error) {
	s.bucketsCalls++
	return s.buckets, nil
}

func (s *stubStockRepository) CountByFirstLetter(ctx context.Context) (map[string]int, error) {
	s.lettersCalls++
	return s.letters, nil
}

func (s *stubStockRepository) Create(ctx context.Context, st *entity.Stock) error {
	st.ID = 1
	return nil
}

func (s *stubStockRepository) Update(ctx context.Context, id uint, patch usecase.StockPatch) (*entity.Stock, error) {
	return s.updateResult, nil
}

func (s *stubStockRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return true, nil
}

func (s *stubStockRepository) BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error) {
	return s.bulkResult, nil
}

// statsKey mirrors the repository's key layout for a filtered statistics entry.
func statsKey(t *testing.T, namespace string, f query.Filter) string {
	t.Helper()
	b, err := json.Marshal(f)
	require.NoError(t, err)
	return namespace + ":stats:" + string(b)
}

func TestCachingStockRepository_NilClientBypassesCache(t *testing.T) {
	inner := &stubStockRepository{stats: &entity.StockStatistics{TotalStocks: 3}}
	repo := NewCachingStockRepository(nil, 0, inner, "")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		stats, err := repo.Statistics(ctx, query.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalStocks)
	}

	assert.Equal(t, 2, inner.statisticsCalls, "without Redis every call hits the store")
}

func TestCachingStockRepository_Statistics(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	stats := &entity.StockStatistics{TotalStocks: 7, AveragePrice: 446.64}
	inner := &stubStockRepository{stats: stats}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")
	ctx := context.Background()

	key := statsKey(t, "stocks", query.Filter{})
	payload, err := json.Marshal(stats)
	require.NoError(t, err)

	// First call misses and populates the cache
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	got, err := repo.Statistics(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalStocks)
	assert.Equal(t, 1, inner.statisticsCalls)

	// Second call is served from the cache
	mock.ExpectGet(key).SetVal(string(payload))

	got, err = repo.Statistics(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalStocks)
	assert.Equal(t, 1, inner.statisticsCalls, "cache hit must not reach the store")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingStockRepository_Statistics_DistinctFiltersGetDistinctKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &stubStockRepository{stats: &entity.StockStatistics{TotalStocks: 2}}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

	hasComment := true
	f := query.Filter{HasComment: &hasComment}
	key := statsKey(t, "stocks", f)
	payload, err := json.Marshal(inner.stats)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	_, err = repo.Statistics(context.Background(), f)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NotEqual(t, statsKey(t, "stocks", query.Filter{}), key)
}

func TestCachingStockRepository_CountByFirstLetter(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	letters := map[string]int{"A": 2, "M": 1}
	inner := &stubStockRepository{letters: letters}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")
	ctx := context.Background()

	payload, err := json.Marshal(letters)
	require.NoError(t, err)

	mock.ExpectGet("stocks:letters").RedisNil()
	mock.ExpectSet("stocks:letters", payload, time.Minute).SetVal("OK")

	got, err := repo.CountByFirstLetter(ctx)
	require.NoError(t, err)
	assert.Equal(t, letters, got)

	mock.ExpectGet("stocks:letters").SetVal(string(payload))

	got, err = repo.CountByFirstLetter(ctx)
	require.NoError(t, err)
	assert.Equal(t, letters, got)
	assert.Equal(t, 1, inner.lettersCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingStockRepository_CorruptEntryIsDeletedAndTreatedAsMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &stubStockRepository{stats: &entity.StockStatistics{TotalStocks: 1}}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

	key := statsKey(t, "stocks", query.Filter{})
	payload, err := json.Marshal(inner.stats)
	require.NoError(t, err)

	mock.ExpectGet(key).SetVal("{not json")
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	got, err := repo.Statistics(context.Background(), query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalStocks)
	assert.Equal(t, 1, inner.statisticsCalls)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingStockRepository_CreateInvalidatesNamespace(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &stubStockRepository{}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

	mock.ExpectScan(0, "stocks:*", 200).SetVal([]string{"stocks:letters", "stocks:stats:{}"}, 0)
	mock.ExpectDel("stocks:letters", "stocks:stats:{}").SetVal(2)

	err := repo.Create(context.Background(), &entity.Stock{Symbol: "AAPL", CompanyName: "Apple Inc.", Price: 180.25})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingStockRepository_UpdateMissDoesNotInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &stubStockRepository{updateResult: nil}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

	price := 200.0
	out, err := repo.Update(context.Background(), 999, usecase.StockPatch{Price: &price})
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.NoError(t, mock.ExpectationsWereMet(), "a no-op update must leave the cache alone")
}

func TestCachingStockRepository_DeleteInvalidatesNamespace(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &stubStockRepository{}
	repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

	mock.ExpectScan(0, "stocks:*", 200).SetVal([]string{"stocks:letters"}, 0)
	mock.ExpectDel("stocks:letters").SetVal(1)

	deleted, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingStockRepository_BulkUpdatePrices(t *testing.T) {
	t.Run("no rows changed leaves the cache alone", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		inner := &stubStockRepository{bulkResult: false}
		repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

		updated, err := repo.BulkUpdatePrices(context.Background(), map[uint]float64{999: 1})
		require.NoError(t, err)
		assert.False(t, updated)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("changed rows invalidate the namespace", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		inner := &stubStockRepository{bulkResult: true}
		repo := NewCachingStockRepository(rdb, time.Minute, inner, "stocks")

		mock.ExpectScan(0, "stocks:*", 200).SetVal([]string{"stocks:stats:{}"}, 0)
		mock.ExpectDel("stocks:stats:{}").SetVal(1)

		updated, err := repo.BulkUpdatePrices(context.Background(), map[uint]float64{1: 200})
		require.NoError(t, err)
		assert.True(t, updated)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
