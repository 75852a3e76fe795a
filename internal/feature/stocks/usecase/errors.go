// Package usecase はstocksフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrSymbolRequired is returned when a create request has no symbol.
	ErrSymbolRequired = errors.New("stock symbol is required")

	// ErrCompanyNameRequired is returned when a create request has no company name.
	ErrCompanyNameRequired = errors.New("company name is required")

	// ErrSymbolTooLong is returned when a symbol exceeds 10 characters.
	ErrSymbolTooLong = errors.New("stock symbol must be at most 10 characters")

	// ErrCompanyNameTooLong is returned when a company name exceeds 100 characters.
	ErrCompanyNameTooLong = errors.New("company name must be at most 100 characters")

	// ErrInvalidPrice is returned when a price is zero or negative.
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// ErrSymbolExists is returned when a create or update would violate
	// symbol uniqueness.
	ErrSymbolExists = errors.New("stock symbol already exists")

	// ErrInvalidPriceRange is returned when a price-range query has negative
	// or inverted bounds.
	ErrInvalidPriceRange = errors.New("invalid price range")

	// ErrInvalidDateRange is returned when a date-range query starts after it ends.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrEmptyBulkUpdate is returned when a bulk price update carries no entries.
	ErrEmptyBulkUpdate = errors.New("price updates must not be empty")

	// ErrInvalidPriceUpdate is returned when a bulk update entry has an
	// invalid id or a non-positive price.
	ErrInvalidPriceUpdate = errors.New("invalid price update entry")

	// ErrEmptyQuery is returned when a raw query is blank.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrQueryNotReadOnly is returned when a raw query does not start with
	// SELECT. The query is rejected before it reaches the store.
	ErrQueryNotReadOnly = errors.New("only SELECT queries are allowed")
)
