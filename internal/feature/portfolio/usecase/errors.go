// Package usecase はportfolioフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrSymbolRequired is returned when a portfolio operation is attempted without a symbol.
	ErrSymbolRequired = errors.New("symbol is required")

	// ErrStockNotFound is returned when the referenced stock does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrAlreadyInPortfolio is returned when the stock is already part of the user's portfolio.
	ErrAlreadyInPortfolio = errors.New("stock already in portfolio")

	// ErrNotInPortfolio is returned when the stock is not part of the user's portfolio.
	ErrNotInPortfolio = errors.New("stock not in portfolio")
)
