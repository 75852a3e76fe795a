// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/query"
	"stock_api/internal/feature/stocks/usecase"
)

// stockGorm はStockRepositoryインターフェースのGORM実装です。
type stockGorm struct {
	db *gorm.DB
}

// stockGormがStockRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたgorm.DB接続でstockGormの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// StockModel は銘柄テーブルの行モデルです。
type StockModel struct {
	ID          uint           `gorm:"primaryKey"`
	Symbol      string         `gorm:"size:10;not null;uniqueIndex"`
	CompanyName string         `gorm:"size:100;not null"`
	Price       float64        `gorm:"not null"`
	MarketCap   int64          `gorm:"not null;default:0"`
	Industry    string         `gorm:"size:500"`
	LastUpdated time.Time      `gorm:"not null"`
	Comments    []CommentModel `gorm:"foreignKey:StockID"`
}

func (StockModel) TableName() string {
	return "stocks"
}

// CommentModel はコメントテーブルの行モデルです。StockIDはNULL可能で、
// 孤立したコメント行も表現できます。
type CommentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"size:1000;not null"`
	CreatedOn time.Time `gorm:"not null"`
	StockID   *uint     `gorm:"index"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func toModel(e *entity.Stock) StockModel {
	return StockModel{
		ID:          e.ID,
		Symbol:      e.Symbol,
		CompanyName: e.CompanyName,
		Price:       e.Price,
		MarketCap:   e.MarketCap,
		Industry:    e.Industry,
		LastUpdated: e.LastUpdated,
	}
}

func toEntity(m StockModel) entity.Stock {
	comments := make([]entity.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		comments = append(comments, CommentToEntity(c))
	}
	return entity.Stock{
		ID:          m.ID,
		Symbol:      m.Symbol,
		CompanyName: m.CompanyName,
		Price:       m.Price,
		MarketCap:   m.MarketCap,
		Industry:    m.Industry,
		LastUpdated: m.LastUpdated,
		Comments:    comments,
	}
}

func toEntities(ms []StockModel) []entity.Stock {
	out := make([]entity.Stock, 0, len(ms))
	for _, m := range ms {
		out = append(out, toEntity(m))
	}
	return out
}

// StockToEntity は銘柄行モデルをエンティティに変換します。
// portfolioフィーチャーのアダプターと共有されます。
func StockToEntity(m StockModel) entity.Stock {
	return toEntity(m)
}

// CommentToEntity はコメント行モデルをエンティティに変換します。
// commentsフィーチャーのアダプターと共有されます。
func CommentToEntity(m CommentModel) entity.Comment {
	return entity.Comment{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedOn: m.CreatedOn,
		StockID:   m.StockID,
	}
}

// All はコメント込みの全銘柄をID昇順で返します。
func (r *stockGorm) All(ctx context.Context) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Preload("Comments").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// FindByID はIDで銘柄を取得します。存在しない場合は (nil, nil) を返します。
func (r *stockGorm) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var m StockModel
	if err := r.db.WithContext(ctx).
		Preload("Comments").
		First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// FindBySymbol はSymbolの完全一致（大文字小文字を区別しない）で銘柄を取得します。
func (r *stockGorm) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var m StockModel
	if err := r.db.WithContext(ctx).
		Preload("Comments").
		Where("UPPER(symbol) = UPPER(?)", symbol).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// Create は新しい銘柄を永続化し、割り当てられたIDとLastUpdatedを
// エンティティへ書き戻します。
func (r *stockGorm) Create(ctx context.Context, s *entity.Stock) error {
	m := toModel(s)
	m.ID = 0
	m.LastUpdated = time.Now()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.LastUpdated = m.LastUpdated
	return nil
}

// Update はパッチの非nilフィールドだけを上書きします。LastUpdatedは
// 変更の有無に関わらず更新されます。対象が存在しない場合は (nil, nil) です。
func (r *stockGorm) Update(ctx context.Context, id uint, patch usecase.StockPatch) (*entity.Stock, error) {
	updates := map[string]any{"last_updated": time.Now()}
	if patch.Symbol != nil {
		updates["symbol"] = *patch.Symbol
	}
	if patch.CompanyName != nil {
		updates["company_name"] = *patch.CompanyName
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.MarketCap != nil {
		updates["market_cap"] = *patch.MarketCap
	}
	if patch.Industry != nil {
		updates["industry"] = *patch.Industry
	}

	res := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// Delete は銘柄と付随するコメントを1トランザクションで削除します（カスケード削除）。
func (r *stockGorm) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", id).Delete(&CommentModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&StockModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Filtered はフィルタに一致する銘柄をコメント込みでID昇順に返します。
func (r *stockGorm) Filtered(ctx context.Context, f query.Filter) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(f.Scope()).
		Preload("Comments").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Sorted は指定された順序で全銘柄を返します。
func (r *stockGorm) Sorted(ctx context.Context, ord query.Ordering) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(ord.Scope()).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Paged は同一の述語で総件数と1ページ分を取得します。件数が常に
// フィルタ適用後の集合を反映するよう、別の条件で数え直すことはしません。
func (r *stockGorm) Paged(ctx context.Context, f query.Filter, ord query.Ordering, p query.Page) ([]entity.Stock, int64, error) {
	var totalCount int64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(f.Scope(), ord.Scope()).
		Offset(p.Offset()).
		Limit(p.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toEntities(rows), totalCount, nil
}

// Search はSymbolまたはCompanyNameにtermを含む銘柄を返します。
func (r *stockGorm) Search(ctx context.Context, term string) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(query.SearchScope(term)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// SearchSymbolPattern はLIKEパターンでSymbolを検索します。
func (r *stockGorm) SearchSymbolPattern(ctx context.Context, pattern string) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(query.SymbolPatternScope(pattern)).
		Order("symbol ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// ByPriceRange は価格帯（両端含む）の銘柄を価格昇順で返します。
func (r *stockGorm) ByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Where("price >= ? AND price <= ?", minPrice, maxPrice).
		Order("price ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// TopExpensive は価格降順で上位limit件を返します。
func (r *stockGorm) TopExpensive(ctx context.Context, limit int) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Order("price DESC, id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// UpdatedBetween はLastUpdatedが期間内（両端含む）の銘柄を
// 更新日時の新しい順に返します。
func (r *stockGorm) UpdatedBetween(ctx context.Context, start, end time.Time) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Where("last_updated >= ? AND last_updated <= ?", start, end).
		Order("last_updated DESC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Count はフィルタに一致する件数を返します。
func (r *stockGorm) Count(ctx context.Context, f query.Filter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// AveragePrice は平均価格を返します。対象が空の場合はNaNではなく0です。
func (r *stockGorm) AveragePrice(ctx context.Context, f query.Filter) (float64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Select("COALESCE(AVG(price), 0)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	return avg, nil
}

// TotalMarketValue は価格の合計を返します。名前に反してMarketCapでは
// なくPriceを合計します。元の仕様をそのまま保持した既知の癖です。
func (r *stockGorm) TotalMarketValue(ctx context.Context, f query.Filter) (float64, error) {
	var sum float64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Select("COALESCE(SUM(price), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// statisticsRow はStatisticsの集計クエリのスキャン先です。
type statisticsRow struct {
	TotalStocks      int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	TotalMarketValue float64
	WithComments     int
}

// Statistics は統計値一式を1つのSQL文で計算します。7つの値すべてが
// 同一スナップショットから導出され、途中で別のクエリを挟みません。
func (r *stockGorm) Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error) {
	var row statisticsRow
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Select("COUNT(*) AS total_stocks, " +
			"COALESCE(AVG(price), 0) AS average_price, " +
			"COALESCE(MIN(price), 0) AS min_price, " +
			"COALESCE(MAX(price), 0) AS max_price, " +
			"COALESCE(SUM(price), 0) AS total_market_value, " +
			"COALESCE(SUM(CASE WHEN EXISTS (SELECT 1 FROM comments WHERE comments.stock_id = stocks.id) THEN 1 ELSE 0 END), 0) AS with_comments").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &entity.StockStatistics{
		TotalStocks:      row.TotalStocks,
		AveragePrice:     row.AveragePrice,
		MinPrice:         row.MinPrice,
		MaxPrice:         row.MaxPrice,
		TotalMarketValue: row.TotalMarketValue,
		WithComments:     row.WithComments,
		WithoutComments:  row.TotalStocks - row.WithComments,
	}, nil
}

// bucketRow は価格帯集計クエリのスキャン先です。
type bucketRow struct {
	Label        string
	Count        int
	AveragePrice float64
}

// PriceRangeBuckets は固定の価格帯（左閉右開）ごとの件数と平均価格を
// ラベル昇順で返します。空のバケットは含まれません。
func (r *stockGorm) PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error) {
	var rows []bucketRow
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Scopes(f.Scope()).
		Select(query.PriceBandCaseSQL + " AS label, COUNT(*) AS count, AVG(price) AS average_price").
		Group(query.PriceBandCaseSQL).
		Order("label ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PriceRangeBucket, 0, len(rows))
	for _, b := range rows {
		out = append(out, entity.PriceRangeBucket{
			Label:        b.Label,
			Count:        b.Count,
			AveragePrice: b.AveragePrice,
		})
	}
	return out, nil
}

// GroupedByPriceRange は価格帯ごとの銘柄一覧を返します。バケット境界は
// PriceRangeBucketsと同一で、空のバケットは含まれません。
func (r *stockGorm) GroupedByPriceRange(ctx context.Context, f query.Filter) ([]entity.PriceRangeGroup, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Scopes(f.Scope()).
		Order("price ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byLabel := make(map[string][]entity.Stock)
	for _, m := range rows {
		label := query.BandLabel(m.Price)
		byLabel[label] = append(byLabel[label], toEntity(m))
	}

	out := make([]entity.PriceRangeGroup, 0, len(byLabel))
	for _, band := range query.PriceBands {
		stocks, ok := byLabel[band.Label]
		if !ok {
			continue
		}
		out = append(out, entity.PriceRangeGroup{
			Label:  band.Label,
			Count:  len(stocks),
			Stocks: stocks,
		})
	}
	return out, nil
}

// letterRow は頭文字集計クエリのスキャン先です。
type letterRow struct {
	Letter string
	Count  int
}

// CountByFirstLetter はSymbolの頭文字（大文字化）ごとの銘柄数を返します。
func (r *stockGorm) CountByFirstLetter(ctx context.Context) (map[string]int, error) {
	var rows []letterRow
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Select("UPPER(SUBSTR(symbol, 1, 1)) AS letter, COUNT(*) AS count").
		Group("UPPER(SUBSTR(symbol, 1, 1))").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Letter] = row.Count
	}
	return out, nil
}

// commentCountRow はコメント数結合クエリのスキャン先です。
type commentCountRow struct {
	ID           uint
	Symbol       string
	CompanyName  string
	Price        float64
	CommentCount int
	LastUpdated  time.Time
}

// WithCommentCounts は全銘柄をコメント数付きで返します（LEFT JOIN）。
// コメントが0件の銘柄もCommentCount=0で含まれます。
func (r *stockGorm) WithCommentCounts(ctx context.Context) ([]entity.StockCommentCount, error) {
	var rows []commentCountRow
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Select("stocks.id, stocks.symbol, stocks.company_name, stocks.price, stocks.last_updated, COUNT(comments.id) AS comment_count").
		Joins("LEFT JOIN comments ON comments.stock_id = stocks.id").
		Group("stocks.id, stocks.symbol, stocks.company_name, stocks.price, stocks.last_updated").
		Order("stocks.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.StockCommentCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.StockCommentCount{
			ID:           row.ID,
			Symbol:       row.Symbol,
			CompanyName:  row.CompanyName,
			Price:        row.Price,
			CommentCount: row.CommentCount,
			LastUpdated:  row.LastUpdated,
		})
	}
	return out, nil
}

// TopByCommentCount はコメント数降順（同数はID昇順）で上位limit件を返します。
func (r *stockGorm) TopByCommentCount(ctx context.Context, limit int) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Select("stocks.*").
		Joins("LEFT JOIN comments ON comments.stock_id = stocks.id").
		Group("stocks.id").
		Order("COUNT(comments.id) DESC, stocks.id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// WithoutComments はコメントのない銘柄をSymbol昇順で返します。
func (r *stockGorm) WithoutComments(ctx context.Context) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM comments WHERE comments.stock_id = stocks.id)").
		Order("symbol ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// BulkUpdatePrices は存在するIDの価格を1トランザクションで更新します。
// 存在しないIDはスキップされ、バッチ全体が1回でコミットされます。
// 1件以上更新された場合にtrueを返します。
func (r *stockGorm) BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error) {
	if len(updates) == 0 {
		return false, nil
	}

	// 実行順を決定的にするためIDを昇順に並べる
	ids := make([]uint, 0, len(updates))
	for id := range updates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, id := range ids {
			res := tx.Model(&StockModel{}).
				Where("id = ?", id).
				Updates(map[string]any{
					"price":        updates[id],
					"last_updated": now,
				})
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ExecuteRawSelect は検証済みのクエリ文字列をそのままストアに渡し、
// 結果を銘柄行として読み取ります。検証は呼び出し側（usecase）の責務です。
func (r *stockGorm) ExecuteRawSelect(ctx context.Context, q string, args ...any) ([]entity.Stock, error) {
	var rows []StockModel
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Exists はIDの存在を確認します。
func (r *stockGorm) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistsBySymbol はSymbolの存在（大文字小文字を区別しない）を確認します。
func (r *stockGorm) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Where("UPPER(symbol) = UPPER(?)", symbol).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
