// Package dto はportfolioフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"stock_api/internal/feature/stocks/domain/entity"
)

// PortfolioStock はポートフォリオ内の1銘柄のレスポンスを表します。
type PortfolioStock struct {
	ID          uint      `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"companyName"`
	Price       float64   `json:"price"`
	MarketCap   int64     `json:"marketCap"`
	Industry    string    `json:"industry"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// FromEntity はエンティティからPortfolioStockを生成します。
func FromEntity(s entity.Stock) PortfolioStock {
	return PortfolioStock{
		ID:          s.ID,
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Price:       s.Price,
		MarketCap:   s.MarketCap,
		Industry:    s.Industry,
		LastUpdated: s.LastUpdated,
	}
}

// FromEntities はエンティティのスライスからレスポンスのスライスを生成します。
func FromEntities(stocks []entity.Stock) []PortfolioStock {
	out := make([]PortfolioStock, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, FromEntity(s))
	}
	return out
}
