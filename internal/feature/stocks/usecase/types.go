package usecase

import (
	"stock_api/internal/feature/stocks/domain/entity"
)

// CreateStock は新規銘柄の入力値です。
type CreateStock struct {
	Symbol      string
	CompanyName string
	Price       float64
	MarketCap   int64
	Industry    string
}

// StockPatch は部分更新の入力値です。nilのフィールドは既存値を保持し、
// 非nilのフィールドだけが上書きされます。空文字での消去と未指定が
// 型レベルで区別されます。
type StockPatch struct {
	Symbol      *string
	CompanyName *string
	Price       *float64
	MarketCap   *int64
	Industry    *string
}

// IsZero はパッチが何も変更しないことを報告します。
func (p StockPatch) IsZero() bool {
	return p.Symbol == nil && p.CompanyName == nil && p.Price == nil &&
		p.MarketCap == nil && p.Industry == nil
}

// PagedStocks は1ページ分の銘柄とページングメタデータです。
// TotalCountとTotalPagesは常にフィルタ適用後の集合を反映します。
type PagedStocks struct {
	Items           []entity.Stock
	TotalCount      int64
	PageNumber      int
	PageSize        int
	TotalPages      int
	HasPreviousPage bool
	HasNextPage     bool
}
