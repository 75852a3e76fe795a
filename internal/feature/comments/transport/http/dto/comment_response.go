package dto

import (
	"time"

	"stock_api/internal/feature/stocks/domain/entity"
)

// CommentResponse は1コメントのレスポンスDTOです。
type CommentResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"createdOn"`
	StockID   *uint     `json:"stockId"`
}

// FromEntity はエンティティからCommentResponseを生成します。
func FromEntity(c entity.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Title:     c.Title,
		Content:   c.Content,
		CreatedOn: c.CreatedOn,
		StockID:   c.StockID,
	}
}

// FromEntities はエンティティのスライスからレスポンスのスライスを生成します。
func FromEntities(comments []entity.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, FromEntity(c))
	}
	return out
}
