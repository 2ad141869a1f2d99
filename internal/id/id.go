// Package id generates opaque identifiers for stored records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BookIDLength is the number of NanoID characters in a book ID.
const BookIDLength = 16

// Generator produces unique IDs.
type Generator func() (string, error)

// Generate creates a NanoID of the given length using the URL-safe alphabet.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(length int) (string, error) {
	id, err := gonanoid.New(length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

// NewBookID creates an ID for a new book.
func NewBookID() (string, error) {
	return Generate(BookIDLength)
}

