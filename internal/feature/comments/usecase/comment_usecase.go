// Package usecase はcommentsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"stock_api/internal/feature/stocks/domain/entity"
)

const (
	// maxContentLength はコメント本文の最大文字数です。
	maxContentLength = 1000
)

var (
	// ErrTitleRequired is returned when a comment has no title.
	ErrTitleRequired = errors.New("comment title is required")

	// ErrContentRequired is returned when a comment has no content.
	ErrContentRequired = errors.New("comment content is required")

	// ErrContentTooLong is returned when comment content exceeds 1000 characters.
	ErrContentTooLong = errors.New("comment content must be at most 1000 characters")

	// ErrStockNotFound is returned when a comment references a stock that
	// does not exist.
	ErrStockNotFound = errors.New("referenced stock not found")
)

// CommentRepository はコメントエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）側で定義します。
type CommentRepository interface {
	// All は全コメントを返します。
	All(ctx context.Context) ([]entity.Comment, error)
	// FindByID はIDでコメントを検索します。存在しない場合は (nil, nil) を返します。
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	// Create は新しいコメントを永続化し、IDとCreatedOnを割り当てます。
	Create(ctx context.Context, c *entity.Comment) error
	// Update はパッチの非nilフィールドだけを上書きします。CreatedOnは変更されません。
	Update(ctx context.Context, id uint, patch CommentPatch) (*entity.Comment, error)
	// Delete はコメントを削除し、削除が行われたかを報告します。
	Delete(ctx context.Context, id uint) (bool, error)
}

// StockFinder は参照先の銘柄の存在確認を抽象化します。
type StockFinder interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// CreateComment は新規コメントの入力値です。
type CreateComment struct {
	Title   string
	Content string
	StockID uint
}

// CommentPatch は部分更新の入力値です。nilのフィールドは既存値を保持します。
type CommentPatch struct {
	Title   *string
	Content *string
	StockID *uint
}

// commentUsecase はコメント操作のビジネスロジックを実装します。
type commentUsecase struct {
	comments CommentRepository
	stocks   StockFinder
}

// NewCommentUsecase はcommentUsecaseの新しいインスタンスを生成します。
func NewCommentUsecase(comments CommentRepository, stocks StockFinder) *commentUsecase {
	return &commentUsecase{comments: comments, stocks: stocks}
}

// GetAll は全コメントを返します。
func (u *commentUsecase) GetAll(ctx context.Context) ([]entity.Comment, error) {
	return u.comments.All(ctx)
}

// GetByID はIDでコメントを取得します。不正なIDや未登録のIDは (nil, nil) です。
func (u *commentUsecase) GetByID(ctx context.Context, id uint) (*entity.Comment, error) {
	if id == 0 {
		return nil, nil
	}
	return u.comments.FindByID(ctx, id)
}

// Create は入力を検証し、参照先の銘柄の存在を確認してからコメントを登録します。
func (u *commentUsecase) Create(ctx context.Context, in CreateComment) (*entity.Comment, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}
	if len(content) > maxContentLength {
		return nil, ErrContentTooLong
	}
	if in.StockID == 0 {
		return nil, ErrStockNotFound
	}
	exists, err := u.stocks.Exists(ctx, in.StockID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStockNotFound
	}

	stockID := in.StockID
	c := &entity.Comment{Title: title, Content: content, StockID: &stockID}
	if err := u.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update は部分更新を適用します。設定されたフィールドだけを検証し、
// 対象が存在しない場合は (nil, nil) を返します。
func (u *commentUsecase) Update(ctx context.Context, id uint, patch CommentPatch) (*entity.Comment, error) {
	if id == 0 {
		return nil, nil
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrTitleRequired
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, ErrContentRequired
		}
		if len(content) > maxContentLength {
			return nil, ErrContentTooLong
		}
	}
	if patch.StockID != nil {
		exists, err := u.stocks.Exists(ctx, *patch.StockID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrStockNotFound
		}
	}
	return u.comments.Update(ctx, id, patch)
}

// Delete はコメントを削除します。
func (u *commentUsecase) Delete(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	return u.comments.Delete(ctx, id)
}
