// Package usecase はbooksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"stock_api/internal/feature/books/domain/entity"
)

var (
	// ErrTitleRequired is returned when a book has no title.
	ErrTitleRequired = errors.New("book title is required")

	// ErrWriterRequired is returned when a book has no writer.
	ErrWriterRequired = errors.New("book writer is required")
)

// BookRepository は書籍エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）側で定義します。
type BookRepository interface {
	// AllActive はアクティブな書籍をタイトル昇順で返します。
	AllActive(ctx context.Context) ([]entity.Book, error)
	// FindByID はIDで書籍を検索します。非アクティブな書籍も対象で、
	// 存在しない場合は (nil, nil) を返します。
	FindByID(ctx context.Context, id uint) (*entity.Book, error)
	// FindByTitle はタイトルの完全一致で書籍を検索します。
	// 存在しない場合は (nil, nil) を返します。
	FindByTitle(ctx context.Context, title string) (*entity.Book, error)
	// Create は新しい書籍を永続化し、IDを割り当てます。
	Create(ctx context.Context, b *entity.Book) error
	// Update はパッチの非nilフィールドだけを上書きします。
	Update(ctx context.Context, id uint, patch BookPatch) (*entity.Book, error)
	// Deactivate は書籍を論理削除し、削除後の書籍を返します。
	// 存在しない場合は (nil, nil) を返します。
	Deactivate(ctx context.Context, id uint) (*entity.Book, error)
}

// CreateBook は新規書籍の入力値です。
type CreateBook struct {
	Title       string
	Genre       string
	Writer      string
	Description string
	PublishedAt time.Time
	Likes       int
}

// BookPatch は部分更新の入力値です。nilのフィールドは既存値を保持します。
type BookPatch struct {
	Title       *string
	Genre       *string
	Writer      *string
	Description *string
	PublishedAt *time.Time
	Likes       *int
}

// bookUsecase は書籍操作のビジネスロジックを実装します。
type bookUsecase struct {
	books BookRepository
}

// NewBookUsecase はbookUsecaseの新しいインスタンスを生成します。
func NewBookUsecase(books BookRepository) *bookUsecase {
	return &bookUsecase{books: books}
}

// GetAll はアクティブな書籍をタイトル昇順で返します。
func (u *bookUsecase) GetAll(ctx context.Context) ([]entity.Book, error) {
	return u.books.AllActive(ctx)
}

// GetByID はIDで書籍を取得します。論理削除済みの書籍も返します。
// 不正なIDや未登録のIDは (nil, nil) です。
func (u *bookUsecase) GetByID(ctx context.Context, id uint) (*entity.Book, error) {
	if id == 0 {
		return nil, nil
	}
	return u.books.FindByID(ctx, id)
}

// GetByTitle はタイトルの完全一致で書籍を取得します。
func (u *bookUsecase) GetByTitle(ctx context.Context, title string) (*entity.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	return u.books.FindByTitle(ctx, title)
}

// Create は入力を検証してから書籍を登録します。新規書籍は常に
// アクティブとして作成され、一覧に即座に現れます。
func (u *bookUsecase) Create(ctx context.Context, in CreateBook) (*entity.Book, error) {
	title := strings.TrimSpace(in.Title)
	writer := strings.TrimSpace(in.Writer)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if writer == "" {
		return nil, ErrWriterRequired
	}

	b := &entity.Book{
		Title:       title,
		Genre:       in.Genre,
		Writer:      writer,
		Description: in.Description,
		PublishedAt: in.PublishedAt,
		Likes:       in.Likes,
		Active:      true,
	}
	if err := u.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update は部分更新を適用します。設定されたフィールドだけを検証し、
// 対象が存在しない場合は (nil, nil) を返します。
func (u *bookUsecase) Update(ctx context.Context, id uint, patch BookPatch) (*entity.Book, error) {
	if id == 0 {
		return nil, nil
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrTitleRequired
	}
	if patch.Writer != nil && strings.TrimSpace(*patch.Writer) == "" {
		return nil, ErrWriterRequired
	}
	return u.books.Update(ctx, id, patch)
}

// Delete は書籍を論理削除し、削除後の書籍を返します。
func (u *bookUsecase) Delete(ctx context.Context, id uint) (*entity.Book, error) {
	if id == 0 {
		return nil, nil
	}
	return u.books.Deactivate(ctx, id)
}
