package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_api/internal/app/router"
	authadapters "stock_api/internal/feature/auth/adapters"
	authhandler "stock_api/internal/feature/auth/transport/handler"
	authusecase "stock_api/internal/feature/auth/usecase"
	bookadapters "stock_api/internal/feature/books/adapters"
	bookhandler "stock_api/internal/feature/books/transport/handler"
	bookusecase "stock_api/internal/feature/books/usecase"
	commentadapters "stock_api/internal/feature/comments/adapters"
	commenthandler "stock_api/internal/feature/comments/transport/handler"
	commentusecase "stock_api/internal/feature/comments/usecase"
	portfolioadapters "stock_api/internal/feature/portfolio/adapters"
	portfoliohandler "stock_api/internal/feature/portfolio/transport/handler"
	portfoliousecase "stock_api/internal/feature/portfolio/usecase"
	stockadapters "stock_api/internal/feature/stocks/adapters"
	stockhandler "stock_api/internal/feature/stocks/transport/handler"
	stockusecase "stock_api/internal/feature/stocks/usecase"
	"stock_api/internal/platform/cache"
	platformdb "stock_api/internal/platform/db"
	jwtmw "stock_api/internal/platform/jwt"
	platformredis "stock_api/internal/platform/redis"
)

func main() {
	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	stockRepo := stockadapters.NewStockRepository(db)
	commentRepo := commentadapters.NewCommentRepository(db)
	portfolioRepo := portfolioadapters.NewPortfolioGorm(db)
	bookRepo := bookadapters.NewBookRepository(db)

	// 集計系クエリをRedisキャッシュでラップ。コメント書き込みも同じ
	// 名前空間を無効化する（WithComments等の集計が古くならないように）
	cachedStockRepo := cache.NewCachingStockRepository(rdb, 5*time.Minute, stockRepo, "stocks")
	invalidatingCommentRepo := cache.NewInvalidatingCommentRepository(rdb, commentRepo, "stocks")

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	jwtGen := jwtmw.NewGenerator(secret, 24*time.Hour)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	stockUC := stockusecase.NewStockUsecase(cachedStockRepo)
	commentUC := commentusecase.NewCommentUsecase(invalidatingCommentRepo, cachedStockRepo)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(portfolioRepo, cachedStockRepo)
	bookUC := bookusecase.NewBookUsecase(bookRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	stockH := stockhandler.NewStockHandler(stockUC)
	commentH := commenthandler.NewCommentHandler(commentUC)
	portfolioH := portfoliohandler.NewPortfolioHandler(portfolioUC)
	bookH := bookhandler.NewBookHandler(bookUC)

	// ルータ生成
	r := router.NewRouter(secret, authH, stockH, commentH, portfolioH, bookH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
