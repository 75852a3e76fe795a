// Package adapters はportfolioフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stock_api/internal/feature/portfolio/usecase"
	stockadapters "stock_api/internal/feature/stocks/adapters"
	"stock_api/internal/feature/stocks/domain/entity"
)

// PortfolioModel はportfoliosテーブルのGORMモデルです。
// ユーザーと銘柄の多対多の紐付けを1行で表現します。
type PortfolioModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_portfolio_user_stock"`
	StockID   uint `gorm:"not null;uniqueIndex:idx_portfolio_user_stock"`
	CreatedAt time.Time
}

// TableName はGORMが使用するテーブル名を指定します。
func (PortfolioModel) TableName() string {
	return "portfolios"
}

// portfolioGorm はPortfolioRepositoryインターフェースのGORM実装です。
type portfolioGorm struct {
	db *gorm.DB
}

// portfolioGormがPortfolioRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PortfolioRepository = (*portfolioGorm)(nil)

// NewPortfolioGorm は指定されたgorm.DB接続でportfolioGormの新しいインスタンスを生成します。
func NewPortfolioGorm(db *gorm.DB) *portfolioGorm {
	return &portfolioGorm{db: db}
}

// StocksFor はユーザーのポートフォリオに含まれる銘柄をSymbol昇順で返します。
func (r *portfolioGorm) StocksFor(ctx context.Context, userID uint) ([]entity.Stock, error) {
	var models []stockadapters.StockModel
	err := r.db.WithContext(ctx).
		Joins("JOIN portfolios ON portfolios.stock_id = stocks.id").
		Where("portfolios.user_id = ?", userID).
		Order("stocks.symbol ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	stocks := make([]entity.Stock, 0, len(models))
	for _, m := range models {
		stocks = append(stocks, stockadapters.StockToEntity(m))
	}
	return stocks, nil
}

// Contains はユーザーのポートフォリオに銘柄が含まれるかを返します。
func (r *portfolioGorm) Contains(ctx context.Context, userID, stockID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PortfolioModel{}).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add はユーザーのポートフォリオに銘柄を追加します。
func (r *portfolioGorm) Add(ctx context.Context, userID, stockID uint) error {
	m := PortfolioModel{UserID: userID, StockID: stockID}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Remove はユーザーのポートフォリオから銘柄を削除し、削除が発生したかを返します。
func (r *portfolioGorm) Remove(ctx context.Context, userID, stockID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Delete(&PortfolioModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
