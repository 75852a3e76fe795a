// Package dto はstocksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CreateStockReq はPOST /api/stocksのリクエストボディを表します。
type CreateStockReq struct {
	Symbol      string  `json:"symbol" binding:"required"`
	CompanyName string  `json:"companyName" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	MarketCap   int64   `json:"marketCap"`
	Industry    string  `json:"industry"`
}

// UpdateStockReq はPUT /api/stocks/:idのリクエストボディを表します。
// nilのフィールドは既存値を保持します。
type UpdateStockReq struct {
	Symbol      *string  `json:"symbol"`
	CompanyName *string  `json:"companyName"`
	Price       *float64 `json:"price"`
	MarketCap   *int64   `json:"marketCap"`
	Industry    *string  `json:"industry"`
}

// BulkPriceUpdateReq はPOST /api/stocks/prices/bulkのリクエストボディを表します。
// キーは銘柄ID、値は新しい価格です。
type BulkPriceUpdateReq struct {
	Updates map[uint]float64 `json:"updates"`
}

// RawQueryReq はPOST /api/stocks/queryのリクエストボディを表します。
type RawQueryReq struct {
	Query string `json:"query" binding:"required"`
	Args  []any  `json:"args"`
}
