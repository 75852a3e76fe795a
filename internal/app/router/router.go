package router

import (
	authhandler "stock_api/internal/feature/auth/transport/handler"
	bookhandler "stock_api/internal/feature/books/transport/handler"
	commenthandler "stock_api/internal/feature/comments/transport/handler"
	portfoliohandler "stock_api/internal/feature/portfolio/transport/handler"
	stockhandler "stock_api/internal/feature/stocks/transport/handler"
	platformhandler "stock_api/internal/platform/http/handler"
	jwtmw "stock_api/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(jwtSecret string, auth *authhandler.AuthHandler, stocks *stockhandler.StockHandler,
	comments *commenthandler.CommentHandler, portfolio *portfoliohandler.PortfolioHandler,
	books *bookhandler.BookHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	api := r.Group("/api")
	{
		// 銘柄の参照系
		api.GET("/stocks", stocks.List)
		api.GET("/stocks/paged", stocks.Paged)
		api.GET("/stocks/search", stocks.Search)
		api.GET("/stocks/search/symbol", stocks.SearchBySymbolPattern)
		api.GET("/stocks/with-comments", stocks.WithComments)
		api.GET("/stocks/without-comments", stocks.WithoutComments)
		api.GET("/stocks/price-range", stocks.PriceRange)
		api.GET("/stocks/top/expensive", stocks.TopExpensive)
		api.GET("/stocks/top/comments", stocks.TopByComments)
		api.GET("/stocks/updated/recent", stocks.RecentlyUpdated)
		api.GET("/stocks/updated/range", stocks.UpdatedInRange)
		api.GET("/stocks/updated/today", stocks.UpdatedToday)
		api.GET("/stocks/updated/week", stocks.UpdatedThisWeek)
		api.GET("/stocks/updated/month", stocks.UpdatedThisMonth)
		api.GET("/stocks/symbol/:symbol", stocks.GetBySymbol)
		api.GET("/stocks/company/:name", stocks.GetByCompanyName)
		api.GET("/stocks/:id", stocks.GetByID)
		api.GET("/stocks/:id/exists", stocks.Exists)

		// 集計系
		api.GET("/stocks/stats", stocks.Statistics)
		api.GET("/stocks/stats/count", stocks.Count)
		api.GET("/stocks/stats/average-price", stocks.AveragePrice)
		api.GET("/stocks/stats/market-value", stocks.TotalMarketValue)
		api.GET("/stocks/stats/price-buckets", stocks.PriceBuckets)
		api.GET("/stocks/stats/price-groups", stocks.PriceGroups)
		api.GET("/stocks/stats/first-letter", stocks.FirstLetterCounts)
		api.GET("/stocks/stats/comment-counts", stocks.CommentCounts)

		// コメントの参照系
		api.GET("/comments", comments.List)
		api.GET("/comments/:id", comments.GetByID)

		// 書籍の参照系
		api.GET("/books", books.List)
		api.GET("/books/title/:title", books.GetByTitle)
		api.GET("/books/:id", books.GetByID)
	}

	// 認証必須のルート
	authenticated := r.Group("/api")
	authenticated.Use(jwtmw.AuthRequired(jwtSecret))
	{
		// 銘柄の更新系
		authenticated.POST("/stocks", stocks.Create)
		authenticated.PUT("/stocks/:id", stocks.Update)
		authenticated.DELETE("/stocks/:id", stocks.Delete)
		authenticated.POST("/stocks/prices/bulk", stocks.BulkUpdatePrices)
		authenticated.POST("/stocks/query", stocks.RawQuery)

		// コメントの更新系
		authenticated.POST("/comments", comments.Create)
		authenticated.PUT("/comments/:id", comments.Update)
		authenticated.DELETE("/comments/:id", comments.Delete)

		// 書籍の更新系
		authenticated.POST("/books", books.Create)
		authenticated.PATCH("/books/:id", books.Update)
		authenticated.DELETE("/books/:id", books.Delete)

		// ポートフォリオ
		authenticated.GET("/portfolio", portfolio.List)
		authenticated.POST("/portfolio/:symbol", portfolio.Add)
		authenticated.DELETE("/portfolio/:symbol", portfolio.Remove)
	}

	return r
}
