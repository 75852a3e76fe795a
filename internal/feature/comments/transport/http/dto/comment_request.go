// Package dto はcommentsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CreateCommentReq はPOST /api/commentsのリクエストボディを表します。
type CreateCommentReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
	StockID uint   `json:"stockId" binding:"required"`
}

// UpdateCommentReq はPUT /api/comments/:idのリクエストボディを表します。
// nilのフィールドは既存値を保持します。
type UpdateCommentReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	StockID *uint   `json:"stockId"`
}
