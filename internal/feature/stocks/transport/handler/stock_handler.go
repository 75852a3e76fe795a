// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_api/internal/feature/stocks/domain/entity"
	"stock_api/internal/feature/stocks/query"
	"stock_api/internal/feature/stocks/transport/http/dto"
	"stock_api/internal/feature/stocks/usecase"
	platformdto "stock_api/internal/platform/http/dto"
)

// StockUsecase は銘柄操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type StockUsecase interface {
	GetAll(ctx context.Context) ([]entity.Stock, error)
	GetByID(ctx context.Context, id uint) (*entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	GetByCompanyName(ctx context.Context, companyName string) ([]entity.Stock, error)
	Create(ctx context.Context, in usecase.CreateStock) (*entity.Stock, error)
	Update(ctx context.Context, id uint, patch usecase.StockPatch) (*entity.Stock, error)
	Delete(ctx context.Context, id uint) (bool, error)

	Filtered(ctx context.Context, f query.Filter) ([]entity.Stock, error)
	Sorted(ctx context.Context, sortBy string, descending bool) ([]entity.Stock, error)
	Paged(ctx context.Context, f query.Filter, pageNumber, pageSize int, sortBy string, descending bool) (*usecase.PagedStocks, error)
	Search(ctx context.Context, term string) ([]entity.Stock, error)
	SearchBySymbolPattern(ctx context.Context, pattern string) ([]entity.Stock, error)

	GetWithComments(ctx context.Context) ([]entity.Stock, error)
	WithoutComments(ctx context.Context) ([]entity.Stock, error)
	GetByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]entity.Stock, error)
	GetTopExpensive(ctx context.Context, count int) ([]entity.Stock, error)
	GetRecentlyUpdated(ctx context.Context, days int) ([]entity.Stock, error)
	GetUpdatedInRange(ctx context.Context, start, end time.Time) ([]entity.Stock, error)
	GetUpdatedToday(ctx context.Context) ([]entity.Stock, error)
	GetUpdatedThisWeek(ctx context.Context) ([]entity.Stock, error)
	GetUpdatedThisMonth(ctx context.Context) ([]entity.Stock, error)

	Count(ctx context.Context, f query.Filter) (int64, error)
	AveragePrice(ctx context.Context, f query.Filter) (float64, error)
	TotalMarketValue(ctx context.Context, f query.Filter) (float64, error)
	Statistics(ctx context.Context, f query.Filter) (*entity.StockStatistics, error)
	PriceRangeBuckets(ctx context.Context, f query.Filter) ([]entity.PriceRangeBucket, error)
	GroupedByPriceRange(ctx context.Context, f query.Filter) ([]entity.PriceRangeGroup, error)
	CountByFirstLetter(ctx context.Context) (map[string]int, error)
	WithCommentCounts(ctx context.Context) ([]entity.StockCommentCount, error)
	TopByCommentCount(ctx context.Context, count int) ([]entity.Stock, error)

	BulkUpdatePrices(ctx context.Context, updates map[uint]float64) (bool, error)
	ExecuteRawSelect(ctx context.Context, q string, args ...any) ([]entity.Stock, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// StockHandler は銘柄操作のHTTPリクエストを処理します。
type StockHandler struct {
	stocks StockUsecase
}

// NewStockHandler はStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(stocks StockUsecase) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// parseID はパスパラメータ:idをuintに変換します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseFilter はクエリパラメータからフィルタを構築します。
// 形式不正のパラメータがある場合はfalseを返し、400を書き込みます。
func parseFilter(c *gin.Context) (query.Filter, bool) {
	f := query.Filter{
		Symbol:      c.Query("symbol"),
		CompanyName: c.Query("companyName"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid minPrice"})
			return query.Filter{}, false
		}
		f.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid maxPrice"})
			return query.Filter{}, false
		}
		f.MaxPrice = &v
	}
	if raw := c.Query("updatedAfter"); raw != "" {
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid updatedAfter"})
			return query.Filter{}, false
		}
		f.UpdatedAfter = &v
	}
	if raw := c.Query("updatedBefore"); raw != "" {
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid updatedBefore"})
			return query.Filter{}, false
		}
		f.UpdatedBefore = &v
	}
	if raw := c.Query("hasComment"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid hasComment"})
			return query.Filter{}, false
		}
		f.HasComment = &v
	}
	return f, true
}

// parseSort はソート関連のクエリパラメータを取得します。
// 未知のソートキーはusecase側でID昇順にフォールバックするため、ここでは検証しません。
func parseSort(c *gin.Context) (string, bool) {
	sortBy := c.Query("sortBy")
	descending, _ := strconv.ParseBool(c.DefaultQuery("descending", "false"))
	return sortBy, descending
}

// parseIntQuery は整数クエリパラメータを取得します。未指定・形式不正時は0を返します。
// 0は「デフォルト値を使用」のシグナルとしてusecase側で解釈されます。
func parseIntQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

// writeError はusecaseのエラーをHTTPステータスに対応付けます。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSymbolRequired),
		errors.Is(err, usecase.ErrCompanyNameRequired),
		errors.Is(err, usecase.ErrSymbolTooLong),
		errors.Is(err, usecase.ErrCompanyNameTooLong),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidPriceRange),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrEmptyBulkUpdate),
		errors.Is(err, usecase.ErrInvalidPriceUpdate),
		errors.Is(err, usecase.ErrEmptyQuery),
		errors.Is(err, usecase.ErrQueryNotReadOnly):
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrSymbolExists):
		c.JSON(http.StatusConflict, platformdto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("stock request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
	}
}

// respondStocks は銘柄スライスを200で返す共通処理です。
func (h *StockHandler) respondStocks(c *gin.Context, stocks []entity.Stock, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStocks(stocks))
}

// List はGET /api/stocksを処理します。
// フィルタとソートのクエリパラメータを受け付けます。
func (h *StockHandler) List(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	sortBy, descending := parseSort(c)

	// フィルタ未指定かつソート指定ありの場合はソート専用パスを使用
	if f.IsZero() && sortBy != "" {
		stocks, err := h.stocks.Sorted(c.Request.Context(), sortBy, descending)
		h.respondStocks(c, stocks, err)
		return
	}
	if f.IsZero() {
		stocks, err := h.stocks.GetAll(c.Request.Context())
		h.respondStocks(c, stocks, err)
		return
	}
	stocks, err := h.stocks.Filtered(c.Request.Context(), f)
	h.respondStocks(c, stocks, err)
}

// Paged はGET /api/stocks/pagedを処理します。
func (h *StockHandler) Paged(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	sortBy, descending := parseSort(c)
	pageNumber := parseIntQuery(c, "pageNumber")
	pageSize := parseIntQuery(c, "pageSize")

	page, err := h.stocks.Paged(c.Request.Context(), f, pageNumber, pageSize, sortBy, descending)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPagedStocks(page))
}

// GetByID はGET /api/stocks/:idを処理します。
func (h *StockHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stock, err := h.stocks.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "stock not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromStock(*stock))
}

// Exists はGET /api/stocks/:id/existsを処理します。
func (h *StockHandler) Exists(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	exists, err := h.stocks.Exists(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// GetBySymbol はGET /api/stocks/symbol/:symbolを処理します。
func (h *StockHandler) GetBySymbol(c *gin.Context) {
	stock, err := h.stocks.GetBySymbol(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "stock not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromStock(*stock))
}

// GetByCompanyName はGET /api/stocks/company/:nameを処理します。
func (h *StockHandler) GetByCompanyName(c *gin.Context) {
	stocks, err := h.stocks.GetByCompanyName(c.Request.Context(), c.Param("name"))
	h.respondStocks(c, stocks, err)
}

// Search はGET /api/stocks/searchを処理します。
func (h *StockHandler) Search(c *gin.Context) {
	stocks, err := h.stocks.Search(c.Request.Context(), c.Query("q"))
	h.respondStocks(c, stocks, err)
}

// SearchBySymbolPattern はGET /api/stocks/search/symbolを処理します。
// patternはSQLのLIKEパターンとしてそのまま解釈されます。
func (h *StockHandler) SearchBySymbolPattern(c *gin.Context) {
	stocks, err := h.stocks.SearchBySymbolPattern(c.Request.Context(), c.Query("pattern"))
	h.respondStocks(c, stocks, err)
}

// WithComments はGET /api/stocks/with-commentsを処理します。
func (h *StockHandler) WithComments(c *gin.Context) {
	stocks, err := h.stocks.GetWithComments(c.Request.Context())
	h.respondStocks(c, stocks, err)
}

// WithoutComments はGET /api/stocks/without-commentsを処理します。
func (h *StockHandler) WithoutComments(c *gin.Context) {
	stocks, err := h.stocks.WithoutComments(c.Request.Context())
	h.respondStocks(c, stocks, err)
}

// PriceRange はGET /api/stocks/price-rangeを処理します。
func (h *StockHandler) PriceRange(c *gin.Context) {
	minPrice, err := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid min"})
		return
	}
	maxPrice, err := strconv.ParseFloat(c.DefaultQuery("max", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid max"})
		return
	}
	stocks, err := h.stocks.GetByPriceRange(c.Request.Context(), minPrice, maxPrice)
	h.respondStocks(c, stocks, err)
}

// TopExpensive はGET /api/stocks/top/expensiveを処理します。
func (h *StockHandler) TopExpensive(c *gin.Context) {
	stocks, err := h.stocks.GetTopExpensive(c.Request.Context(), parseIntQuery(c, "count"))
	h.respondStocks(c, stocks, err)
}

// TopByComments はGET /api/stocks/top/commentsを処理します。
func (h *StockHandler) TopByComments(c *gin.Context) {
	stocks, err := h.stocks.TopByCommentCount(c.Request.Context(), parseIntQuery(c, "count"))
	h.respondStocks(c, stocks, err)
}

// RecentlyUpdated はGET /api/stocks/updated/recentを処理します。
func (h *StockHandler) RecentlyUpdated(c *gin.Context) {
	stocks, err := h.stocks.GetRecentlyUpdated(c.Request.Context(), parseIntQuery(c, "days"))
	h.respondStocks(c, stocks, err)
}

// UpdatedInRange はGET /api/stocks/updated/rangeを処理します。
func (h *StockHandler) UpdatedInRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid start"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid end"})
		return
	}
	stocks, err := h.stocks.GetUpdatedInRange(c.Request.Context(), start, end)
	h.respondStocks(c, stocks, err)
}

// UpdatedToday はGET /api/stocks/updated/todayを処理します。
func (h *StockHandler) UpdatedToday(c *gin.Context) {
	stocks, err := h.stocks.GetUpdatedToday(c.Request.Context())
	h.respondStocks(c, stocks, err)
}

// UpdatedThisWeek はGET /api/stocks/updated/weekを処理します。
func (h *StockHandler) UpdatedThisWeek(c *gin.Context) {
	stocks, err := h.stocks.GetUpdatedThisWeek(c.Request.Context())
	h.respondStocks(c, stocks, err)
}

// UpdatedThisMonth はGET /api/stocks/updated/monthを処理します。
func (h *StockHandler) UpdatedThisMonth(c *gin.Context) {
	stocks, err := h.stocks.GetUpdatedThisMonth(c.Request.Context())
	h.respondStocks(c, stocks, err)
}

// Count はGET /api/stocks/stats/countを処理します。
func (h *StockHandler) Count(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	count, err := h.stocks.Count(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// AveragePrice はGET /api/stocks/stats/average-priceを処理します。
func (h *StockHandler) AveragePrice(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	avg, err := h.stocks.AveragePrice(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ValueResponse{Value: avg})
}

// TotalMarketValue はGET /api/stocks/stats/market-valueを処理します。
func (h *StockHandler) TotalMarketValue(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	total, err := h.stocks.TotalMarketValue(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ValueResponse{Value: total})
}

// Statistics はGET /api/stocks/statsを処理します。
func (h *StockHandler) Statistics(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	stats, err := h.stocks.Statistics(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStatistics(stats))
}

// PriceBuckets はGET /api/stocks/stats/price-bucketsを処理します。
func (h *StockHandler) PriceBuckets(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	buckets, err := h.stocks.PriceRangeBuckets(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPriceBuckets(buckets))
}

// PriceGroups はGET /api/stocks/stats/price-groupsを処理します。
func (h *StockHandler) PriceGroups(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	groups, err := h.stocks.GroupedByPriceRange(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPriceGroups(groups))
}

// FirstLetterCounts はGET /api/stocks/stats/first-letterを処理します。
func (h *StockHandler) FirstLetterCounts(c *gin.Context) {
	counts, err := h.stocks.CountByFirstLetter(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// CommentCounts はGET /api/stocks/stats/comment-countsを処理します。
func (h *StockHandler) CommentCounts(c *gin.Context) {
	counts, err := h.stocks.WithCommentCounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCommentCounts(counts))
}

// Create はPOST /api/stocksを処理します。
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create stock validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	stock, err := h.stocks.Create(c.Request.Context(), usecase.CreateStock{
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Price:       req.Price,
		MarketCap:   req.MarketCap,
		Industry:    req.Industry,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("stock created", "id", stock.ID, "symbol", stock.Symbol)
	c.JSON(http.StatusCreated, dto.FromStock(*stock))
}

// Update はPUT /api/stocks/:idを処理します。
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update stock validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	stock, err := h.stocks.Update(c.Request.Context(), id, usecase.StockPatch{
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Price:       req.Price,
		MarketCap:   req.MarketCap,
		Industry:    req.Industry,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "stock not found"})
		return
	}
	slog.Info("stock updated", "id", stock.ID, "symbol", stock.Symbol)
	c.JSON(http.StatusOK, dto.FromStock(*stock))
}

// Delete はDELETE /api/stocks/:idを処理します。
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.stocks.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "stock not found"})
		return
	}
	slog.Info("stock deleted", "id", id)
	c.Status(http.StatusNoContent)
}

// BulkUpdatePrices はPOST /api/stocks/prices/bulkを処理します。
func (h *StockHandler) BulkUpdatePrices(c *gin.Context) {
	var req dto.BulkPriceUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}
	updated, err := h.stocks.BulkUpdatePrices(c.Request.Context(), req.Updates)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("bulk price update applied", "entries", len(req.Updates), "updated", updated)
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// RawQuery はPOST /api/stocks/queryを処理します。
// SELECTで始まるクエリのみ許可されます。
func (h *StockHandler) RawQuery(c *gin.Context) {
	var req dto.RawQueryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}
	stocks, err := h.stocks.ExecuteRawSelect(c.Request.Context(), req.Query, req.Args...)
	h.respondStocks(c, stocks, err)
}
