// Package adapters はbooksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stock_api/internal/feature/books/domain/entity"
	"stock_api/internal/feature/books/usecase"
)

// BookModel はbooksテーブルのGORMモデルです。
type BookModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null;index"`
	Genre       string `gorm:"size:50"`
	Writer      string `gorm:"size:100;not null"`
	Description string
	PublishedAt time.Time
	Likes       int
	Active      bool `gorm:"not null;index"`
}

// TableName はGORMが使用するテーブル名を指定します。
func (BookModel) TableName() string {
	return "books"
}

// BookToEntity はGORMモデルをドメインエンティティに変換します。
func BookToEntity(m BookModel) entity.Book {
	return entity.Book{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		Writer:      m.Writer,
		Description: m.Description,
		PublishedAt: m.PublishedAt,
		Likes:       m.Likes,
		Active:      m.Active,
	}
}

func toModel(b *entity.Book) BookModel {
	return BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Genre:       b.Genre,
		Writer:      b.Writer,
		Description: b.Description,
		PublishedAt: b.PublishedAt,
		Likes:       b.Likes,
		Active:      b.Active,
	}
}

// bookGorm はBookRepositoryインターフェースのGORM実装です。
type bookGorm struct {
	db *gorm.DB
}

var _ usecase.BookRepository = (*bookGorm)(nil)

// NewBookRepository は指定されたgorm.DB接続でbookGormの新しいインスタンスを生成します。
func NewBookRepository(db *gorm.DB) *bookGorm {
	return &bookGorm{db: db}
}

// AllActive はアクティブな書籍をタイトル昇順で返します。
func (r *bookGorm) AllActive(ctx context.Context) ([]entity.Book, error) {
	var rows []BookModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("title ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Book, 0, len(rows))
	for _, m := range rows {
		out = append(out, BookToEntity(m))
	}
	return out, nil
}

// FindByID はIDで書籍を取得します。論理削除済みの行も対象で、
// 存在しない場合は (nil, nil) を返します。
func (r *bookGorm) FindByID(ctx context.Context, id uint) (*entity.Book, error) {
	var m BookModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := BookToEntity(m)
	return &e, nil
}

// FindByTitle はタイトルの完全一致で書籍を取得します。
func (r *bookGorm) FindByTitle(ctx context.Context, title string) (*entity.Book, error) {
	var m BookModel
	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := BookToEntity(m)
	return &e, nil
}

// Create は新しい書籍を永続化し、割り当てられたIDをエンティティへ書き戻します。
func (r *bookGorm) Create(ctx context.Context, b *entity.Book) error {
	m := toModel(b)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	b.ID = m.ID
	return nil
}

// Update はパッチの非nilフィールドだけを上書きします。Activeフラグは
// 更新では変更されません。
func (r *bookGorm) Update(ctx context.Context, id uint, patch usecase.BookPatch) (*entity.Book, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Genre != nil {
		updates["genre"] = *patch.Genre
	}
	if patch.Writer != nil {
		updates["writer"] = *patch.Writer
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PublishedAt != nil {
		updates["published_at"] = *patch.PublishedAt
	}
	if patch.Likes != nil {
		updates["likes"] = *patch.Likes
	}
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&BookModel{}).
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

// Deactivate は書籍を論理削除し、削除後の書籍を返します。
// すでに非アクティブな書籍に対しても冪等に動作します。
func (r *bookGorm) Deactivate(ctx context.Context, id uint) (*entity.Book, error) {
	var m BookModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if m.Active {
		if err := r.db.WithContext(ctx).
			Model(&BookModel{}).
			Where("id = ?", id).
			Update("active", false).Error; err != nil {
			return nil, err
		}
		m.Active = false
	}
	e := BookToEntity(m)
	return &e, nil
}
