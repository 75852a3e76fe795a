// Package entity defines the domain model for the books feature.
package entity

import "time"

// Book is a catalog entry. Deleting a book only clears Active so the row
// stays resolvable by ID; listings show active books only.
type Book struct {
	ID          uint
	Title       string
	Genre       string
	Writer      string
	Description string
	PublishedAt time.Time
	Likes       int
	Active      bool
}
