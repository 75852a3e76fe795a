package dto

import (
	"time"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/usecase"
)

// CommentResponse は銘柄に付随するコメントのレスポンスDTOです。
type CommentResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"createdOn"`
	StockID   *uint     `json:"stockId"`
}

// StockResponse は1銘柄のレスポンスDTOです。
type StockResponse struct {
	ID          uint              `json:"id"`
	Symbol      string            `json:"symbol"`
	CompanyName string            `json:"companyName"`
	Price       float64           `json:"price"`
	MarketCap   int64             `json:"marketCap"`
	Industry    string            `json:"industry"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Comments    []CommentResponse `json:"comments"`
}

// PagedStocksResponse はページングメタデータ付きの銘柄一覧レスポンスです。
type PagedStocksResponse struct {
	Items           []StockResponse `json:"items"`
	TotalCount      int64           `json:"totalCount"`
	PageNumber      int             `json:"pageNumber"`
	PageSize        int             `json:"pageSize"`
	TotalPages      int             `json:"totalPages"`
	HasPreviousPage bool            `json:"hasPreviousPage"`
	HasNextPage     bool            `json:"hasNextPage"`
}

// StatisticsResponse は銘柄集計のレスポンスDTOです。
type StatisticsResponse struct {
	TotalStocks      int     `json:"totalStocks"`
	AveragePrice     float64 `json:"averagePrice"`
	MinPrice         float64 `json:"minPrice"`
	MaxPrice         float64 `json:"maxPrice"`
	TotalMarketValue float64 `json:"totalMarketValue"`
	WithComments     int     `json:"stocksWithComments"`
	WithoutComments  int     `json:"stocksWithoutComments"`
}

// PriceBucketResponse は価格帯ごとの件数と平均価格のレスポンスDTOです。
type PriceBucketResponse struct {
	Label        string  `json:"priceRange"`
	Count        int     `json:"count"`
	AveragePrice float64 `json:"averagePrice"`
}

// PriceGroupResponse は価格帯ごとの銘柄一覧のレスポンスDTOです。
type PriceGroupResponse struct {
	Label  string          `json:"priceRange"`
	Count  int             `json:"count"`
	Stocks []StockResponse `json:"stocks"`
}

// CommentCountResponse は銘柄ごとのコメント数のレスポンスDTOです。
type CommentCountResponse struct {
	ID           uint      `json:"id"`
	Symbol       string    `json:"symbol"`
	CompanyName  string    `json:"companyName"`
	Price        float64   `json:"price"`
	CommentCount int       `json:"commentCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// CountResponse は件数のみのレスポンスDTOです。
type CountResponse struct {
	Count int64 `json:"count"`
}

// ValueResponse は単一の集計値のレスポンスDTOです。
type ValueResponse struct {
	Value float64 `json:"value"`
}

// ExistsResponse は存在確認のレスポンスDTOです。
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// FromComment はコメントエンティティからレスポンスDTOを生成します。
func FromComment(c entity.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Title:     c.Title,
		Content:   c.Content,
		CreatedOn: c.CreatedOn,
		StockID:   c.StockID,
	}
}

// FromStock は銘柄エンティティからレスポンスDTOを生成します。
func FromStock(s entity.Stock) StockResponse {
	comments := make([]CommentResponse, 0, len(s.Comments))
	for _, c := range s.Comments {
		comments = append(comments, FromComment(c))
	}
	return StockResponse{
		ID:          s.ID,
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Price:       s.Price,
		MarketCap:   s.MarketCap,
		Industry:    s.Industry,
		LastUpdated: s.LastUpdated,
		Comments:    comments,
	}
}

// FromStocks は銘柄エンティティのスライスからレスポンスDTOのスライスを生成します。
func FromStocks(stocks []entity.Stock) []StockResponse {
	out := make([]StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, FromStock(s))
	}
	return out
}

// FromPagedStocks はページング結果からレスポンスDTOを生成します。
func FromPagedStocks(p *usecase.PagedStocks) PagedStocksResponse {
	return PagedStocksResponse{
		Items:           FromStocks(p.Items),
		TotalCount:      p.TotalCount,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}

// FromStatistics は集計エンティティからレスポンスDTOを生成します。
func FromStatistics(s *entity.StockStatistics) StatisticsResponse {
	return StatisticsResponse{
		TotalStocks:      s.TotalStocks,
		AveragePrice:     s.AveragePrice,
		MinPrice:         s.MinPrice,
		MaxPrice:         s.MaxPrice,
		TotalMarketValue: s.TotalMarketValue,
		WithComments:     s.WithComments,
		WithoutComments:  s.WithoutComments,
	}
}

// FromPriceBuckets は価格帯集計からレスポンスDTOのスライスを生成します。
func FromPriceBuckets(buckets []entity.PriceRangeBucket) []PriceBucketResponse {
	out := make([]PriceBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, PriceBucketResponse{
			Label:        b.Label,
			Count:        b.Count,
			AveragePrice: b.AveragePrice,
		})
	}
	return out
}

// FromPriceGroups は価格帯ごとの銘柄一覧からレスポンスDTOのスライスを生成します。
func FromPriceGroups(groups []entity.PriceRangeGroup) []PriceGroupResponse {
	out := make([]PriceGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, PriceGroupResponse{
			Label:  g.Label,
			Count:  g.Count,
			Stocks: FromStocks(g.Stocks),
		})
	}
	return out
}

// FromCommentCounts は銘柄ごとのコメント数からレスポンスDTOのスライスを生成します。
func FromCommentCounts(counts []entity.StockCommentCount) []CommentCountResponse {
	out := make([]CommentCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, CommentCountResponse{
			ID:           c.ID,
			Symbol:       c.Symbol,
			CompanyName:  c.CompanyName,
			Price:        c.Price,
			CommentCount: c.CommentCount,
			LastUpdated:  c.LastUpdated,
		})
	}
	return out
}
