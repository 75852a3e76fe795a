// Package entity defines the domain models for the stocks feature.
package entity

import "time"

// Stock represents a tradable financial instrument together with the
// comments attached to it.
type Stock struct {
	ID          uint      // Assigned by the store on creation, immutable afterwards
	Symbol      string    // Ticker symbol (e.g. "AAPL"), at most 10 characters
	CompanyName string    // Issuer name, at most 100 characters
	Price       float64   // Current price, always > 0
	MarketCap   int64     // Market capitalization, never negative
	Industry    string    // Free-form industry classification
	LastUpdated time.Time // Refreshed on creation and on every mutation
	Comments    []Comment // Comments attached to this stock
}

// Comment is an annotation attached to a Stock. StockID is nullable so an
// orphaned comment row stays representable.
type Comment struct {
	ID        uint
	Title     string
	Content   string // At most 1000 characters
	CreatedOn time.Time
	StockID   *uint
}
