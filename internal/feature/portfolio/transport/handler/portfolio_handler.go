// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_api/internal/feature/portfolio/transport/http/dto"
	"stock_api/internal/feature/portfolio/usecase"
	"stock_api/internal/feature/stocks/domain/entity"
	platformdto "stock_api/internal/platform/http/dto"
	jwtmw "stock_api/internal/platform/jwt"
)

// PortfolioUsecase はポートフォリオ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PortfolioUsecase interface {
	// List はユーザーのポートフォリオに含まれる銘柄を返します。
	List(ctx context.Context, userID uint) ([]entity.Stock, error)
	// Add はSymbolで指定された銘柄をユーザーのポートフォリオに追加します。
	Add(ctx context.Context, userID uint, symbol string) (*entity.Stock, error)
	// Remove はSymbolで指定された銘柄をユーザーのポートフォリオから削除します。
	Remove(ctx context.Context, userID uint, symbol string) error
}

// PortfolioHandler はポートフォリオ操作のHTTPリクエストを処理します。
type PortfolioHandler struct {
	portfolio PortfolioUsecase
}

// NewPortfolioHandler はPortfolioHandlerの新しいインスタンスを生成します。
func NewPortfolioHandler(portfolio PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// currentUserID は認証ミドルウェアが設定したユーザーIDを取得します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// List はGET /api/portfolioを処理します。
func (h *PortfolioHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, platformdto.ErrorResponse{Error: "unauthorized"})
		return
	}

	stocks, err := h.portfolio.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list portfolio", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(stocks))
}

// Add はPOST /api/portfolio/:symbolを処理します。
func (h *PortfolioHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, platformdto.ErrorResponse{Error: "unauthorized"})
		return
	}

	symbol := c.Param("symbol")
	stock, err := h.portfolio.Add(c.Request.Context(), userID, symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymbolRequired):
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrStockNotFound):
			c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrAlreadyInPortfolio):
			c.JSON(http.StatusConflict, platformdto.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to add to portfolio", "error", err, "user_id", userID, "symbol", symbol)
			c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*stock))
}

// Remove はDELETE /api/portfolio/:symbolを処理します。
func (h *PortfolioHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, platformdto.ErrorResponse{Error: "unauthorized"})
		return
	}

	symbol := c.Param("symbol")
	if err := h.portfolio.Remove(c.Request.Context(), userID, symbol); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymbolRequired):
			c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrStockNotFound), errors.Is(err, usecase.ErrNotInPortfolio):
			c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to remove from portfolio", "error", err, "user_id", userID, "symbol", symbol)
			c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
