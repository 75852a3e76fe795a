// Package adapters はcommentsフィーチャーのリポジトリ実装を提供します。
// 行モデルはstocksフィーチャーのアダプターと共有します（commentsテーブルは
// 銘柄がカスケード削除のために所有しています）。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stock_api/internal/feature/comments/usecase"
	stockadapters "stock_api/internal/feature/stocks/adapters"
	"stock_api/internal/feature/stocks/domain/entity"
)

// commentGorm はCommentRepositoryインターフェースのGORM実装です。
type commentGorm struct {
	db *gorm.DB
}

var _ usecase.CommentRepository = (*commentGorm)(nil)

// NewCommentRepository は指定されたgorm.DB接続でcommentGormの新しいインスタンスを生成します。
func NewCommentRepository(db *gorm.DB) *commentGorm {
	return &commentGorm{db: db}
}

func toModel(e *entity.Comment) stockadapters.CommentModel {
	return stockadapters.CommentModel{
		ID:      e.ID,
		Title:   e.Title,
		Content: e.Content,
		StockID: e.StockID,
	}
}

// All は全コメントをID昇順で返します。
func (r *commentGorm) All(ctx context.Context) ([]entity.Comment, error) {
	var rows []stockadapters.CommentModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Comment, 0, len(rows))
	for _, m := range rows {
		out = append(out, stockadapters.CommentToEntity(m))
	}
	return out, nil
}

// FindByID はIDでコメントを取得します。存在しない場合は (nil, nil) を返します。
func (r *commentGorm) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var m stockadapters.CommentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := stockadapters.CommentToEntity(m)
	return &e, nil
}

// Create は新しいコメントを永続化し、割り当てられたIDとCreatedOnを
// エンティティへ書き戻します。
func (r *commentGorm) Create(ctx context.Context, c *entity.Comment) error {
	m := toModel(c)
	m.ID = 0
	m.CreatedOn = time.Now()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedOn = m.CreatedOn
	return nil
}

// Update はパッチの非nilフィールドだけを上書きします。CreatedOnは
// 作成時に固定され、更新では変更されません。
func (r *commentGorm) Update(ctx context.Context, id uint, patch usecase.CommentPatch) (*entity.Comment, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.StockID != nil {
		updates["stock_id"] = *patch.StockID
	}
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&stockadapters.CommentModel{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// Delete はコメントを削除し、削除が行われたかを報告します。
func (r *commentGorm) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&stockadapters.CommentModel{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
