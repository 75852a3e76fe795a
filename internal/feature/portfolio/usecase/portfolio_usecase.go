// Package usecase はportfolioフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"stock_api/internal/feature/stocks/domain/entity"
)

// PortfolioRepository はユーザーと銘柄の紐付けの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PortfolioRepository interface {
	// StocksFor はユーザーのポートフォリオに含まれる銘柄をSymbol昇順で返します。
	StocksFor(ctx context.Context, userID uint) ([]entity.Stock, error)
	// Contains はユーザーのポートフォリオに銘柄が含まれるかを返します。
	Contains(ctx context.Context, userID, stockID uint) (bool, error)
	// Add はユーザーのポートフォリオに銘柄を追加します。
	Add(ctx context.Context, userID, stockID uint) error
	// Remove はユーザーのポートフォリオから銘柄を削除し、削除が発生したかを返します。
	Remove(ctx context.Context, userID, stockID uint) (bool, error)
}

// StockFinder は銘柄の存在確認に必要な最小限の操作を定義します。
type StockFinder interface {
	// FindBySymbol はSymbolの完全一致（大文字小文字無視）で銘柄を検索します。
	// 存在しない場合は (nil, nil) を返します。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
}

// portfolioUsecase はポートフォリオのビジネスロジックを実装します。
type portfolioUsecase struct {
	portfolios PortfolioRepository
	stocks     StockFinder
}

// NewPortfolioUsecase はportfolioUsecaseの新しいインスタンスを生成します。
func NewPortfolioUsecase(portfolios PortfolioRepository, stocks StockFinder) *portfolioUsecase {
	return &portfolioUsecase{portfolios: portfolios, stocks: stocks}
}

// List はユーザーのポートフォリオに含まれる銘柄を返します。
func (u *portfolioUsecase) List(ctx context.Context, userID uint) ([]entity.Stock, error) {
	return u.portfolios.StocksFor(ctx, userID)
}

// Add はSymbolで指定された銘柄をユーザーのポートフォリオに追加します。
// 銘柄が存在しない場合はErrStockNotFound、既に追加済みの場合はErrAlreadyInPortfolioを返します。
func (u *portfolioUsecase) Add(ctx context.Context, userID uint, symbol string) (*entity.Stock, error) {
	stock, err := u.resolveStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	exists, err := u.portfolios.Contains(ctx, userID, stock.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInPortfolio
	}

	if err := u.portfolios.Add(ctx, userID, stock.ID); err != nil {
		return nil, err
	}
	return stock, nil
}

// Remove はSymbolで指定された銘柄をユーザーのポートフォリオから削除します。
// ポートフォリオに含まれていない場合はErrNotInPortfolioを返します。
func (u *portfolioUsecase) Remove(ctx context.Context, userID uint, symbol string) error {
	stock, err := u.resolveStock(ctx, symbol)
	if err != nil {
		return err
	}

	removed, err := u.portfolios.Remove(ctx, userID, stock.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInPortfolio
	}
	return nil
}

// resolveStock はSymbolを検証して対応する銘柄を取得します。
func (u *portfolioUsecase) resolveStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return nil, ErrSymbolRequired
	}
	stock, err := u.stocks.FindBySymbol(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}
	return stock, nil
}
