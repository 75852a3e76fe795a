package entity

import "time"

// StockStatistics は1回のスナップショットから計算された統計値のセットです。
// 7つの値はすべて同一のクエリで算出されます。
type StockStatistics struct {
	TotalStocks      int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	TotalMarketValue float64
	WithComments     int
	WithoutComments  int
}

// PriceRangeBucket は価格帯ヒストグラムの1バケットです。
type PriceRangeBucket struct {
	Label        string
	Count        int
	AveragePrice float64
}

// PriceRangeGroup はバケットごとの銘柄一覧を保持します。
type PriceRangeGroup struct {
	Label  string
	Count  int
	Stocks []Stock
}

// StockCommentCount はコメント数を結合した銘柄のプロジェクションです。
// コメントが0件の銘柄も CommentCount=0 で含まれます。
type StockCommentCount struct {
	ID           uint
	Symbol       string
	CompanyName  string
	Price        float64
	CommentCount int
	LastUpdated  time.Time
}
