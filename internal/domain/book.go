// Package domain contains the core entities of the bookshelf.
package domain

import "time"

// Book represents a single book on the shelf.
type Book struct {
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	Year       int       `json:"year"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Finished   bool      `json:"finished"`
	Reading    bool      `json:"reading"`
}

// BookSummary is the reduced view of a book returned by list queries.
type BookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// ListView projects the book onto its list view.
func (b *Book) ListView() BookSummary {
	return BookSummary{
		ID:        b.ID,
		Name:      b.Name,
		Publisher: b.Publisher,
	}
}

// RecomputeFinished derives Finished from the page counters.
// Call this after any change to PageCount or ReadPage.
func (b *Book) RecomputeFinished() {
	b.Finished = b.ReadPage == b.PageCount
}

// InitTimestamps sets both InsertedAt and UpdatedAt to now.
// Call this when creating a new book.
func (b *Book) InitTimestamps(now time.Time) {
	b.InsertedAt = now
	b.UpdatedAt = now
}

// Touch refreshes UpdatedAt.
func (b *Book) Touch(now time.Time) {
	b.UpdatedAt = now
}
