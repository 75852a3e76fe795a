// Package dto はbooksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "time"

// CreateBookReq はPOST /api/booksのリクエストボディを表します。
type CreateBookReq struct {
	Title       string    `json:"title" binding:"required"`
	Genre       string    `json:"genre"`
	Writer      string    `json:"writer" binding:"required"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	Likes       int       `json:"likes"`
}

// UpdateBookReq はPATCH /api/books/:idのリクエストボディを表します。
// nilのフィールドは既存値を保持します。
type UpdateBookReq struct {
	Title       *string    `json:"title"`
	Genre       *string    `json:"genre"`
	Writer      *string    `json:"writer"`
	Description *string    `json:"description"`
	PublishedAt *time.Time `json:"publishedAt"`
	Likes       *int       `json:"likes"`
}
