package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/query"
)

const (
	// maxSymbolLength はSymbolの最大文字数です。
	maxSymbolLength = 10
	// maxCompanyNameLength はCompanyNameの最大文字数です。
	maxCompanyNameLength = 100

	// DefaultTopExpensive は高額銘柄クエリのデフォルト件数です。
	DefaultTopExpensive = 10
	// MaxTopExpensive は高額銘柄クエリの最大件数です。
	MaxTopExpensive = 100

	// DefaultTopByComments はコメント数上位クエリのデフォルト件数です。
	DefaultTopByComments = 5
	// MaxTopByComments はコメント数上位クエリの最大件数です。
	MaxTopByComments = 50

	// DefaultRecentDays は最近更新クエリのデフォルト日数です。
	DefaultRecentDays = 7
	// MaxRecentDays は最近更新クエリの最大日数です。
	MaxRecentDays = 365
)

// StockRepository は銘柄エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなく
// コンシューマー（usecase)が定義します。集計系メソッドはすべて
// query.Filterを受け取り、一覧取得と同一の述語の上で計算されます。
type StockRepository interface {
	// All はコメント込みの全銘柄を返します。
	All(ctx context.Context) ([]entity.Stock, error)
	// FindByID はIDで銘柄を検索します。存在しない場合は (nil, nil) を返します。
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	// FindBySymbol はSymbolの完全一致で銘柄を検索します。存在しない場合は (nil, nil) を返します。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	// Create は新しい銘柄を永続化し、IDとLastUpdatedを割り当てます。
	Create(ctx context.Context, s *entity.Stock) error
	// Update はパッチの非nilフィールドだけを上書きし、LastUpdatedを更新します。
	// 対象が存在しない場合は (nil, nil) を返します。
	Update(ctx context.Context, id uint, patch StockPatch) (*entity.Stock, error)
	// Delete は銘柄と付随するコメントを1トランザクションで削除します。
	Delete(ctx context.Context, id uint) (bool, error)

	// Filtered はフィルタに一致する銘柄を返します。
	Filtered(ctx context.Context, f query.Filter) ([]entity.Stock, error)
	// Sorted は指定された順序で全銘柄を返します。
	Sorted(ctx context.Context, ord query.Ordering) ([]entity.Stock, error)
	// Paged はフィルタ適用後の総件数と1ページ分の銘柄を返します。
	Paged(ctx context.Context, f query.Filter, ord query.Ordering, p query.Page) ([]entity.Stock, int64, error)
	// Search はSymbolまたはCompanyNameにtermを含む銘柄を返します。
	Search(ctx context.Context, term string) ([]entity.Stock, error)
	// SearchSymbolPattern はLIKEパターンでSymbolを検索します。
	SearchSymbolPattern(ctx context.Context, pattern string) ([]entity.Stock, error)

	// ByPriceRange は価格帯（両端含む）の銘柄を価格昇順で返します。
	ByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]entity.Stock, error)
	// TopExpensive は価格降順で上位limit件を返します。
	TopExpensive(ctx context.Context, limit int) ([]entity.Stock, error)
	// UpdatedBetween はLastUpdatedが期間内（両端含む）の銘柄を返します。
	UpdatedBetween(ctx context.Context, start, end time.Time) ([]entity.Stock, error)

	// Count はフィルタに一致する件数を返します。
	Count(ctx context.Context, f query.Filter) (int64, error)
	// AveragePrice は平均価格を返します。対象が空の場合は0です。
	AveragePrice(ctx context.Context, f query.Filter) (float64, error)
	// TotalMarketValue は価格の合計を返します（MarketCapではなくPriceの合計）。
	TotalMarketValue(ctx context.Context, f query.Filter) (float64, error)
	// Statistics は単一のスナップショットから統計値一式を計算します。
	Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error)
	// PriceRangeBuckets は価格帯ごとの件数と平均価格をラベル昇順で返します。
	PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error)
	// GroupedByPriceRange は価格帯ごとの銘柄一覧を返します。
	GroupedByPriceRange(ctx context.Context, f query.Filter) ([]entity.PriceRangeGroup, error)
	// CountByFirstLetter はSymbolの頭文字（大文字化）ごとの件数を返します。
	CountByFirstLetter(ctx context.Context) (map[string]int, error)
	// WithCommentCounts は全銘柄をコメント数付きで返します。0件の銘柄も含まれます。
	WithCommentCounts(ctx context.Context) ([]entity.StockCommentCount, error)
	// TopByCommentCount はコメント数降順（同数はID昇順）で上位limit件を返します。
	TopByCommentCount(ctx context.Context, limit int) ([]entity.Stock, error)
	// WithoutComments はコメントのない銘柄をSymbol昇順で返します。
	WithoutComments(ctx context.Context) ([]entity.Stock, error)

	// BulkUpdatePrices は存在するIDの価格を1トランザクションで更新します。
	// 1件以上更新された場合にtrueを返します。
	BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error)
	// ExecuteRawSelect は検証済みのSELECT文をストアにそのまま渡します。
	ExecuteRawSelect(ctx context.Context, q string, args ...any) ([]entity.Stock, error)
	// Exists はIDの存在を確認します。
	Exists(ctx context.Context, id uint) (bool, error)
	// ExistsBySymbol はSymbolの存在を確認します。
	ExistsBySymbol(ctx context.Context, symbol string) (bool, error)
}

// stockUsecase は銘柄操作のビジネスロジックを実装します。
// 入力の検証と正規化はここで行い、不正な入力はストアへ到達させません。
type stockUsecase struct {
	stocks StockRepository
	now    func() time.Time
}

// NewStockUsecase はstockUsecaseの新しいインスタンスを生成します。
func NewStockUsecase(stocks StockRepository) *stockUsecase {
	return &stockUsecase{stocks: stocks, now: time.Now}
}

// GetAll は全銘柄をコメント込みで返します。
func (u *stockUsecase) GetAll(ctx context.Context) ([]entity.Stock, error) {
	return u.stocks.All(ctx)
}

// GetByID はIDで銘柄を取得します。不正なIDや未登録のIDは (nil, nil) です。
func (u *stockUsecase) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	if id == 0 {
		return nil, nil
	}
	return u.stocks.FindByID(ctx, id)
}

// Create は入力を検証し、Symbolの一意性を確認してから新規銘柄を登録します。
func (u *stockUsecase) Create(ctx context.Context, in CreateStock) (*entity.Stock, error) {
	symbol := strings.TrimSpace(in.Symbol)
	companyName := strings.TrimSpace(in.CompanyName)
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	if len(symbol) > maxSymbolLength {
		return nil, ErrSymbolTooLong
	}
	if companyName == "" {
		return nil, ErrCompanyNameRequired
	}
	if len(companyName) > maxCompanyNameLength {
		return nil, ErrCompanyNameTooLong
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	// Symbolの一意性は作成経路で検証する（大文字小文字を区別しない）
	exists, err := u.stocks.ExistsBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSymbolExists
	}

	s := &entity.Stock{
		Symbol:      symbol,
		CompanyName: companyName,
		Price:       in.Price,
		MarketCap:   in.MarketCap,
		Industry:    in.Industry,
	}
	if err := u.stocks.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update は部分更新を適用します。設定されたフィールドだけを検証し、
// 対象が存在しない場合は (nil, nil) を返します。
func (u *stockUsecase) Update(ctx context.Context, id uint, patch StockPatch) (*entity.Stock, error) {
	if id == 0 {
		return nil, nil
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if patch.CompanyName != nil && len(strings.TrimSpace(*patch.CompanyName)) > maxCompanyNameLength {
		return nil, ErrCompanyNameTooLong
	}
	if patch.Symbol != nil {
		symbol := strings.TrimSpace(*patch.Symbol)
		if symbol == "" {
			return nil, ErrSymbolRequired
		}
		if len(symbol) > maxSymbolLength {
			return nil, ErrSymbolTooLong
		}
		// 別の銘柄が同じSymbolを使っていないか確認
		other, err := u.stocks.FindBySymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrSymbolExists
		}
		patch.Symbol = &symbol
	}
	return u.stocks.Update(ctx, id, patch)
}

// Delete は銘柄を削除します。付随するコメントも一緒に削除されます。
func (u *stockUsecase) Delete(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	return u.stocks.Delete(ctx, id)
}

// GetBySymbol はSymbolの完全一致で銘柄を取得します。空白のみの入力は (nil, nil) です。
func (u *stockUsecase) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, nil
	}
	return u.stocks.FindBySymbol(ctx, symbol)
}

// GetByCompanyName はCompanyNameの部分一致で銘柄を検索します。
func (u *stockUsecase) GetByCompanyName(ctx context.Context, companyName string) ([]entity.Stock, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return []entity.Stock{}, nil
	}
	return u.stocks.Filtered(ctx, query.Filter{CompanyName: companyName})
}

// GetWithComments はコメントが1件以上ある銘柄を返します。
func (u *stockUsecase) GetWithComments(ctx context.Context) ([]entity.Stock, error) {
	hasComment := true
	return u.stocks.Filtered(ctx, query.Filter{HasComment: &hasComment})
}

// GetByPriceRange は価格帯の銘柄を価格昇順で返します。
// 負の境界や下限>上限はこの層で検証して拒否します。
func (u *stockUsecase) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]entity.Stock, error) {
	if minPrice < 0 || maxPrice < 0 {
		return nil, fmt.Errorf("%w: bounds must not be negative", ErrInvalidPriceRange)
	}
	if minPrice > maxPrice {
		return nil, fmt.Errorf("%w: min %.2f is greater than max %.2f", ErrInvalidPriceRange, minPrice, maxPrice)
	}
	return u.stocks.ByPriceRange(ctx, minPrice, maxPrice)
}

// GetTopExpensive は価格の高い順に上位count件を返します。
// 範囲外のcountは既定値に丸められます。
func (u *stockUsecase) GetTopExpensive(ctx context.Context, count int) ([]entity.Stock, error) {
	if count <= 0 {
		count = DefaultTopExpensive
	}
	if count > MaxTopExpensive {
		count = MaxTopExpensive
	}
	return u.stocks.TopExpensive(ctx, count)
}

// GetRecentlyUpdated は直近days日以内に更新された銘柄を返します。
func (u *stockUsecase) GetRecentlyUpdated(ctx context.Context, days int) ([]entity.Stock, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	if days > MaxRecentDays {
		days = MaxRecentDays
	}
	now := u.now()
	return u.stocks.UpdatedBetween(ctx, now.AddDate(0, 0, -days), now)
}

// GetUpdatedInRange は期間内に更新された銘柄を返します。
func (u *stockUsecase) GetUpdatedInRange(ctx context.Context, start, end time.Time) ([]entity.Stock, error) {
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	return u.stocks.UpdatedBetween(ctx, start, end)
}

// GetUpdatedToday は本日更新された銘柄を返します。
func (u *stockUsecase) GetUpdatedToday(ctx context.Context) ([]entity.Stock, error) {
	now := u.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return u.stocks.UpdatedBetween(ctx, start, now)
}

// GetUpdatedThisWeek は今週（日曜始まり）に更新された銘柄を返します。
func (u *stockUsecase) GetUpdatedThisWeek(ctx context.Context) ([]entity.Stock, error) {
	now := u.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return u.stocks.UpdatedBetween(ctx, start, now)
}

// GetUpdatedThisMonth は今月更新された銘柄を返します。
func (u *stockUsecase) GetUpdatedThisMonth(ctx context.Context) ([]entity.Stock, error) {
	now := u.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return u.stocks.UpdatedBetween(ctx, start, now)
}

// Filtered はフィルタに一致する銘柄を返します。ゼロ値のフィルタは全件です。
func (u *stockUsecase) Filtered(ctx context.Context, f query.Filter) ([]entity.Stock, error) {
	return u.stocks.Filtered(ctx, f)
}

// Sorted はソートキー名と方向を解決して全銘柄を返します。
// 未知のキーはエラーにせずID昇順にフォールバックします。
func (u *stockUsecase) Sorted(ctx context.Context, sortBy string, descending bool) ([]entity.Stock, error) {
	return u.stocks.Sorted(ctx, query.ResolveOrdering(sortBy, descending))
}

// Paged はフィルタ・ソート・ページングを合成して1ページ分の銘柄と
// メタデータを返します。メタデータは常にフィルタ適用後の集合と一致します。
func (u *stockUsecase) Paged(ctx context.Context, f query.Filter, pageNumber, pageSize int, sortBy string, descending bool) (*PagedStocks, error) {
	page := query.Page{Number: pageNumber, Size: pageSize}.Normalize()
	ord := query.ResolveOrdering(sortBy, descending)

	items, totalCount, err := u.stocks.Paged(ctx, f, ord, page)
	if err != nil {
		return nil, err
	}

	totalPages := page.TotalPages(totalCount)
	return &PagedStocks{
		Items:           items,
		TotalCount:      totalCount,
		PageNumber:      page.Number,
		PageSize:        page.Size,
		TotalPages:      totalPages,
		HasPreviousPage: page.Number > 1,
		HasNextPage:     page.Number < totalPages,
	}, nil
}

// Search はSymbolまたはCompanyNameにtermを含む銘柄を返します。
// 空白のみの入力はエンジンを呼ばず空の結果を返します。
func (u *stockUsecase) Search(ctx context.Context, term string) ([]entity.Stock, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []entity.Stock{}, nil
	}
	return u.stocks.Search(ctx, term)
}

// SearchBySymbolPattern はLIKEパターン（% _）でSymbolを検索します。
func (u *stockUsecase) SearchBySymbolPattern(ctx context.Context, pattern string) ([]entity.Stock, error) {
	if strings.TrimSpace(pattern) == "" {
		return []entity.Stock{}, nil
	}
	return u.stocks.SearchSymbolPattern(ctx, pattern)
}

// Count はフィルタに一致する銘柄数を返します。
func (u *stockUsecase) Count(ctx context.Context, f query.Filter) (int64, error) {
	return u.stocks.Count(ctx, f)
}

// AveragePrice は平均価格を返します。対象が空の場合は0です。
func (u *stockUsecase) AveragePrice(ctx context.Context, f query.Filter) (float64, error) {
	return u.stocks.AveragePrice(ctx, f)
}

// TotalMarketValue は価格の合計を返します。名前に反してMarketCapではなく
// Priceを合計する仕様で、元の挙動をそのまま保持しています。
func (u *stockUsecase) TotalMarketValue(ctx context.Context, f query.Filter) (float64, error) {
	return u.stocks.TotalMarketValue(ctx, f)
}

// Statistics は統計値一式を返します。
func (u *stockUsecase) Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error) {
	return u.stocks.Statistics(ctx, f)
}

// PriceRangeBuckets は価格帯ヒストグラムを返します。
func (u *stockUsecase) PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error) {
	return u.stocks.PriceRangeBuckets(ctx, f)
}

// GroupedByPriceRange は価格帯ごとの銘柄一覧を返します。
func (u *stockUsecase) GroupedByPriceRange(ctx context.Context, f query.Filter) ([]entity.PriceRangeGroup, error) {
	return u.stocks.GroupedByPriceRange(ctx, f)
}

// CountByFirstLetter はSymbolの頭文字ごとの銘柄数を返します。
func (u *stockUsecase) CountByFirstLetter(ctx context.Context) (map[string]int, error) {
	return u.stocks.CountByFirstLetter(ctx)
}

// WithCommentCounts は全銘柄をコメント数付きで返します。
func (u *stockUsecase) WithCommentCounts(ctx context.Context) ([]entity.StockCommentCount, error) {
	return u.stocks.WithCommentCounts(ctx)
}

// TopByCommentCount はコメント数の多い順に上位count件を返します。
func (u *stockUsecase) TopByCommentCount(ctx context.Context, count int) ([]entity.Stock, error) {
	if count <= 0 {
		count = DefaultTopByComments
	}
	if count > MaxTopByComments {
		count = MaxTopByComments
	}
	return u.stocks.TopByCommentCount(ctx, count)
}

// WithoutComments はコメントのない銘柄をSymbol昇順で返します。
func (u *stockUsecase) WithoutComments(ctx context.Context) ([]entity.Stock, error) {
	return u.stocks.WithoutComments(ctx)
}

// BulkUpdatePrices は複数銘柄の価格を一括更新します。
// 空のマップと不正なエントリはストアに触れる前に拒否します。
// 存在しないIDは黙ってスキップされ、1件以上更新された場合にtrueを返します。
func (u *stockUsecase) BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error) {
	if len(updates) == 0 {
		return false, ErrEmptyBulkUpdate
	}
	for id, price := range updates {
		if id == 0 {
			return false, fmt.Errorf("%w: invalid stock id", ErrInvalidPriceUpdate)
		}
		if price <= 0 {
			return false, fmt.Errorf("%w: price %.2f for stock %d", ErrInvalidPriceUpdate, price, id)
		}
	}
	return u.stocks.BulkUpdatePrices(ctx, updates)
}

// ExecuteRawSelect は読み取り専用の生クエリを実行します。
// 先頭トークンがSELECTでないクエリはストアに到達する前に拒否されます。
// これは字句的なガードであり、完全なパーサーではありません。
func (u *stockUsecase) ExecuteRawSelect(ctx context.Context, q string, args ...any) ([]entity.Stock, error) {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return nil, ErrQueryNotReadOnly
	}
	return u.stocks.ExecuteRawSelect(ctx, q, args...)
}

// Exists はIDの存在を確認します。
func (u *stockUsecase) Exists(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	return u.stocks.Exists(ctx, id)
}

// ExistsBySymbol はSymbolの存在を確認します。
func (u *stockUsecase) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return false, nil
	}
	return u.stocks.ExistsBySymbol(ctx, symbol)
}
