package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_api/internal/feature/portfolio/usecase"
	"stock_api/internal/feature/stocks/domain/entity"
	jwtmw "stock_api/internal/platform/jwt"
)

type mockPortfolioUsecase struct {
	ListFunc   func(ctx context.Context, userID uint) ([]entity.Stock, error)
	AddFunc    func(ctx context.Context, userID uint, symbol string) (*entity.Stock, error)
	RemoveFunc func(ctx context.Context, userID uint, symbol string) error
}

func (m *mockPortfolioUsecase) List(ctx context.Context, userID uint) ([]entity.Stock, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []entity.Stock{}, nil
}

func (m *mockPortfolioUsecase) Add(ctx context.Context, userID uint, symbol string) (*entity.Stock, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, symbol)
	}
	return &entity.Stock{ID: 1, Symbol: symbol}, nil
}

func (m *mockPortfolioUsecase) Remove(ctx context.Context, userID uint, symbol string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, symbol)
	}
	return nil
}

var _ PortfolioUsecase = (*mockPortfolioUsecase)(nil)

// setupRouter registers the production paths behind a stubbed auth middleware.
// userID 0 simulates a request where authentication never ran.
func setupRouter(uc PortfolioUsecase, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPortfolioHandler(uc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(jwtmw.ContextUserID, userID)
		}
		c.Next()
	})
	api := r.Group("/api")
	{
		api.GET("/portfolio", h.List)
		api.POST("/portfolio/:symbol", h.Add)
		api.DELETE("/portfolio/:symbol", h.Remove)
	}
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPortfolioHandler_List(t *testing.T) {
	t.Run("returns the user's stocks", func(t *testing.T) {
		var gotUserID uint
		uc := &mockPortfolioUsecase{
			ListFunc: func(ctx context.Context, userID uint) ([]entity.Stock, error) {
				gotUserID = userID
				return []entity.Stock{{ID: 2, Symbol: "AAPL", Price: 180.25}}, nil
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodGet, "/api/portfolio")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(10), gotUserID)
		assert.Contains(t, w.Body.String(), `"symbol":"AAPL"`)
	})

	t.Run("missing auth context is a 401", func(t *testing.T) {
		r := setupRouter(&mockPortfolioUsecase{}, 0)

		w := doRequest(t, r, http.MethodGet, "/api/portfolio")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
	})
}

func TestPortfolioHandler_Add(t *testing.T) {
	t.Run("added stock is returned with a 201", func(t *testing.T) {
		var gotSymbol string
		uc := &mockPortfolioUsecase{
			AddFunc: func(ctx context.Context, userID uint, symbol string) (*entity.Stock, error) {
				gotSymbol = symbol
				return &entity.Stock{ID: 2, Symbol: "AAPL", CompanyName: "Apple Inc."}, nil
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodPost, "/api/portfolio/AAPL")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "AAPL", gotSymbol)
		assert.Contains(t, w.Body.String(), `"companyName":"Apple Inc."`)
	})

	t.Run("unknown symbol is a 404", func(t *testing.T) {
		uc := &mockPortfolioUsecase{
			AddFunc: func(ctx context.Context, userID uint, symbol string) (*entity.Stock, error) {
				return nil, usecase.ErrStockNotFound
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodPost, "/api/portfolio/ZZZZ")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("duplicate entry is a 409", func(t *testing.T) {
		uc := &mockPortfolioUsecase{
			AddFunc: func(ctx context.Context, userID uint, symbol string) (*entity.Stock, error) {
				return nil, usecase.ErrAlreadyInPortfolio
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodPost, "/api/portfolio/AAPL")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing auth context is a 401", func(t *testing.T) {
		r := setupRouter(&mockPortfolioUsecase{}, 0)

		w := doRequest(t, r, http.MethodPost, "/api/portfolio/AAPL")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPortfolioHandler_Remove(t *testing.T) {
	t.Run("removed stock is a 204", func(t *testing.T) {
		r := setupRouter(&mockPortfolioUsecase{}, 10)

		w := doRequest(t, r, http.MethodDelete, "/api/portfolio/AAPL")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("stock not in the portfolio is a 404", func(t *testing.T) {
		uc := &mockPortfolioUsecase{
			RemoveFunc: func(ctx context.Context, userID uint, symbol string) error {
				return usecase.ErrNotInPortfolio
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodDelete, "/api/portfolio/AAPL")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown symbol is a 404", func(t *testing.T) {
		uc := &mockPortfolioUsecase{
			RemoveFunc: func(ctx context.Context, userID uint, symbol string) error {
				return usecase.ErrStockNotFound
			},
		}
		r := setupRouter(uc, 10)

		w := doRequest(t, r, http.MethodDelete, "/api/portfolio/ZZZZ")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
