// Package handler はbooksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_api/internal/feature/books/domain/entity"
	"stock_api/internal/feature/books/transport/http/dto"
	"stock_api/internal/feature/books/usecase"
	platformdto "stock_api/internal/platform/http/dto"
)

// BookUsecase は書籍操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type BookUsecase interface {
	GetAll(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id uint) (*entity.Book, error)
	GetByTitle(ctx context.Context, title string) (*entity.Book, error)
	Create(ctx context.Context, in usecase.CreateBook) (*entity.Book, error)
	Update(ctx context.Context, id uint, patch usecase.BookPatch) (*entity.Book, error)
	Delete(ctx context.Context, id uint) (*entity.Book, error)
}

// BookHandler は書籍操作のHTTPリクエストを処理します。
type BookHandler struct {
	books BookUsecase
}

// NewBookHandler はBookHandlerの新しいインスタンスを生成します。
func NewBookHandler(books BookUsecase) *BookHandler {
	return &BookHandler{books: books}
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
		errors.Is(err, usecase.ErrWriterRequired):
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("book request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, platformdto.ErrorResponse{Error: "internal server error"})
	}
}

// List はGET /api/booksを処理します。アクティブな書籍だけを返します。
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.books.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(books))
}

// GetByID はGET /api/books/:idを処理します。
func (h *BookHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := h.books.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "book not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*book))
}

// GetByTitle はGET /api/books/title/:titleを処理します。
func (h *BookHandler) GetByTitle(c *gin.Context) {
	book, err := h.books.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		writeError(c, err)
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "book not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*book))
}

// Create はPOST /api/booksを処理します。
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create book validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	book, err := h.books.Create(c.Request.Context(), usecase.CreateBook{
		Title:       req.Title,
		Genre:       req.Genre,
		Writer:      req.Writer,
		Description: req.Description,
		PublishedAt: req.PublishedAt,
		Likes:       req.Likes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("book created", "id", book.ID, "title", book.Title)
	c.JSON(http.StatusCreated, dto.FromEntity(*book))
}

// Update はPATCH /api/books/:idを処理します。
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update book validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, platformdto.ErrorResponse{Error: "invalid request"})
		return
	}

	book, err := h.books.Update(c.Request.Context(), id, usecase.BookPatch{
		Title:       req.Title,
		Genre:       req.Genre,
		Writer:      req.Writer,
		Description: req.Description,
		PublishedAt: req.PublishedAt,
		Likes:       req.Likes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "book not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*book))
}

// Delete はDELETE /api/books/:idを処理します。論理削除で、
// 削除後の書籍をボディとして返します。
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := h.books.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, platformdto.ErrorResponse{Error: "book not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*book))
}
