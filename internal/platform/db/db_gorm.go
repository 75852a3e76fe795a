// Package db provides the GORM database bootstrap for the application.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authentity "stock_api/internal/feature/auth/domain/entity"
	bookadapters "stock_api/internal/feature/books/adapters"
	portfolioadapters "stock_api/internal/feature/portfolio/adapters"
	stockadapters "stock_api/internal/feature/stocks/adapters"
)

// Config holds database connection settings.
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() Config {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  sslMode,
	}
}

// BuildDSN builds a PostgreSQL DSN string from the configuration.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener opens a gorm.DB for a DSN. It exists so that connection retry
// logic can be tested without a real database.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry attempts to connect until it succeeds or the timeout
// elapses, retrying every 3 seconds.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB connects to PostgreSQL using environment configuration and runs
// migrations when RUN_MIGRATIONS=true. It exits the process when the
// database stays unreachable.
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	})
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&stockadapters.StockModel{},
			&stockadapters.CommentModel{},
			&portfolioadapters.PortfolioModel{},
			&bookadapters.BookModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
