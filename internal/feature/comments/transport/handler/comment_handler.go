// Package handler はcommentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_api/internal/feature/comments/transport/http/dto"
	"stock_api/internal/feature/comments/usecase"
	"stock_api/internal/feature/stocks/domain/entity"
	platformdto "stock_api/internal/platform/http/dto"
)

// CommentUsecase はコメント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CommentUsecase interface {
	GetAll(ctx context.Context) ([]entity.Comment, error)
	GetByID(ctx context.Context, id uint) (*entity.Comment, error)
	Create(ctx context.Context, in usecase.CreateComment) (*entity.Comment, error)
	Update(ctx context.Context, id uint, patch usecase.CommentPatch) (*entity.Comment, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// CommentHandler はコメント操作のHTTPリクエストを処理します。
type CommentHandler struct {
	comments CommentUsecase
}

// NewCommentHandler はCommentHandlerの新しいインスタンスを生成します。
func NewCommentHandler(comments CommentUsecase) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// parseID はパスパラメータ:idをuintに変換します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// writeError はusecaseのエラーをHTTPステータスに対応付けます。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTitleRequired),
		errors.Is(err, usecase.ErrContentRequired),
		errors.Is(err, usecase.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrStockNotFound):
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("comment request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
	}
}

// List はGET /api/commentsを処理します。
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.comments.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(comments))
}

// GetByID はGET /api/comments/:idを処理します。
func (h *CommentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	comment, err := h.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "comment not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*comment))
}

// Create はPOST /api/commentsを処理します。
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create comment validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), usecase.CreateComment{
		Title:   req.Title,
		Content: req.Content,
		StockID: req.StockID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("comment created", "id", comment.ID, "stock_id", req.StockID)
	c.JSON(http.StatusCreated, dto.FromEntity(*comment))
}

// Update はPUT /api/comments/:idを処理します。
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update comment validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), id, usecase.CommentPatch{
		Title:   req.Title,
		Content: req.Content,
		StockID: req.StockID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "comment not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*comment))
}

// Delete はDELETE /api/comments/:idを処理します。
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.comments.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "comment not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
