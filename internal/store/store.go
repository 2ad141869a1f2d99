// Package store provides the in-memory book collection.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/listenupapp/bookshelf-server/internal/domain"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("book already exists")
)

// MemoryStore holds books in insertion order.
// Records are copied on the way in and out, so callers never alias stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	books  map[string]*domain.Book
	order  []string
	logger *slog.Logger
}

// New creates an empty store.
func New(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		books:  make(map[string]*domain.Book),
		logger: logger,
	}
}

// CreateBook appends a book to the collection.
func (s *MemoryStore) CreateBook(_ context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[book.ID]; exists {
		return ErrBookExists
	}

	stored := *book
	s.books[book.ID] = &stored
	s.order = append(s.order, book.ID)

	if s.logger != nil {
		s.logger.Debug("book created", "id", book.ID, "name", book.Name)
	}
	return nil
}

// GetBook returns a copy of the book with the given ID.
func (s *MemoryStore) GetBook(_ context.Context, id string) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}

	out := *book
	return &out, nil
}

// ListBooks returns copies of all books in insertion order.
func (s *MemoryStore) ListBooks(_ context.Context) ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]*domain.Book, 0, len(s.order))
	for _, id := range s.order {
		b := *s.books[id]
		books = append(books, &b)
	}
	return books, nil
}

// UpdateBook replaces the stored book with the same ID.
// The position in the collection is preserved.
func (s *MemoryStore) UpdateBook(_ context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.ID]; !ok {
		return ErrBookNotFound
	}

	stored := *book
	s.books[book.ID] = &stored

	if s.logger != nil {
		s.logger.Debug("book updated", "id", book.ID)
	}
	return nil
}

// DeleteBook removes the book with the given ID.
func (s *MemoryStore) DeleteBook(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return ErrBookNotFound
	}

	delete(s.books, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.logger != nil {
		s.logger.Debug("book deleted", "id", id)
	}
	return nil
}

// Count returns the number of stored books.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
