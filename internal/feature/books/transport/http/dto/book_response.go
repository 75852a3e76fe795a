package dto

import (
	"time"

	"stock_api/internal/feature/books/domain/entity"
)

// BookResponse は1書籍のレスポンスDTOです。
type BookResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Writer      string    `json:"writer"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	Likes       int       `json:"likes"`
	Active      bool      `json:"active"`
}

// FromEntity はエンティティからBookResponseを生成します。
func FromEntity(b entity.Book) BookResponse {
	return BookResponse{
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

// FromEntities はエンティティのスライスからレスポンスのスライスを生成します。
func FromEntities(books []entity.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, FromEntity(b))
	}
	return out
}
