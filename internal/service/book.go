// Package service provides the business rules for managing the bookshelf.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/listenupapp/bookshelf-server/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf-server/internal/errors"
	"github.com/listenupapp/bookshelf-server/internal/id"
	"github.com/listenupapp/bookshelf-server/internal/normalize"
	"github.com/listenupapp/bookshelf-server/internal/store"
	"github.com/listenupapp/bookshelf-server/internal/validation"
)

// Messages returned to clients.
const (
	MsgNameRequired    = "name required"
	MsgReadPageExceeds = "readPage cannot exceed pageCount"
	MsgBookNotFound    = "book not found"
	MsgUpdateNotFound  = "update failed: id not found"
	MsgDeleteNotFound  = "delete failed: id not found"
	MsgAddFailed       = "book could not be added"
	MsgBookAdded       = "book added"
	MsgBookUpdated     = "book updated"
	MsgBookDeleted     = "book deleted"

	msgGenerateIDFailed = "failed to generate book id"
	msgStoreUnavailable = "book store unavailable"
)

// JSON field names reported by the validator.
const (
	fieldName     = "name"
	fieldReadPage = "readPage"
)

// BookStore is the collection the service reads and mutates.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
}

// BookInput is the payload for adding or editing a book.
// Name, PageCount and ReadPage are pointers so an absent field differs from a zero value.
type BookInput struct {
	Name      *string `json:"name" validate:"required"`
	PageCount *int    `json:"pageCount"`
	ReadPage  *int    `json:"readPage"`
	Author    string  `json:"author"`
	Summary   string  `json:"summary"`
	Publisher string  `json:"publisher"`
	Year      int     `json:"year"`
	Reading   bool    `json:"reading"`
}

// readPageWithinPageCount rejects readPage > pageCount when both are present.
func readPageWithinPageCount(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(BookInput)
	if !ok {
		return
	}
	if in.ReadPage != nil && in.PageCount != nil && *in.ReadPage > *in.PageCount {
		sl.ReportError(in.ReadPage, fieldReadPage, "ReadPage", "ltefield", "pageCount")
	}
}

// applyTo copies every editable field onto book and rederives Finished.
// ID and InsertedAt are left untouched.
func (in BookInput) applyTo(book *domain.Book) {
	book.Name = *in.Name
	book.Year = in.Year
	book.Author = in.Author
	book.Summary = in.Summary
	book.Publisher = in.Publisher
	book.PageCount = derefInt(in.PageCount)
	book.ReadPage = derefInt(in.ReadPage)
	book.Reading = in.Reading
	book.RecomputeFinished()
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ListFilter holds the raw query values for listing books.
// A nil field means the parameter was not supplied.
type ListFilter struct {
	Name     *string
	Reading  *string
	Finished *string
}

// apply narrows books by the supplied filters.
//
// Filters are evaluated in the order name, reading, finished and each one
// starts again from the full collection, so when several are supplied only
// the last one takes effect. Clients depend on this; it is not an intersection.
func (f ListFilter) apply(books []*domain.Book) []*domain.Book {
	selected := books

	if f.Name != nil {
		selected = filterBooks(books, func(b *domain.Book) bool {
			return normalize.ContainsLower(b.Name, *f.Name)
		})
	}

	if f.Reading != nil {
		selected = filterBooks(books, func(b *domain.Book) bool {
			return matchesFlag(b.Reading, *f.Reading)
		})
	}

	if f.Finished != nil {
		selected = filterBooks(books, func(b *domain.Book) bool {
			return matchesFlag(b.Finished, *f.Finished)
		})
	}

	return selected
}

func filterBooks(books []*domain.Book, keep func(*domain.Book) bool) []*domain.Book {
	out := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// matchesFlag compares a stored flag with a boolean-ish query value.
// "" means false; values strconv.ParseBool rejects match nothing.
func matchesFlag(value bool, raw string) bool {
	if raw == "" {
		return !value
	}
	want, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value == want
}

// BookServiceOption configures a BookService.
type BookServiceOption func(*BookService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) BookServiceOption {
	return func(s *BookService) {
		s.now = now
	}
}

// WithIDGenerator overrides how new book IDs are produced.
func WithIDGenerator(gen id.Generator) BookServiceOption {
	return func(s *BookService) {
		s.newID = gen
	}
}

// BookService orchestrates book operations.
type BookService struct {
	store     BookStore
	validator *validation.Validator
	newID     id.Generator
	now       func() time.Time
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store BookStore, v *validation.Validator, logger *slog.Logger, opts ...BookServiceOption) *BookService {
	v.RegisterStructValidation(readPageWithinPageCount, BookInput{})

	s := &BookService{
		store:     store,
		validator: v,
		newID:     id.NewBookID,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBook validates the input and stores a new book.
func (s *BookService) AddBook(ctx context.Context, in BookInput) (*domain.Book, error) {
	// 1. Validate payload.
	if err := s.validate(in); err != nil {
		return nil, err
	}

	// 2. Build the record.
	bookID, err := s.newID()
	if err != nil {
		s.logger.Error("Failed to generate book ID", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, msgGenerateIDFailed)
	}

	book := &domain.Book{ID: bookID}
	in.applyTo(book)
	book.InitTimestamps(s.now())

	// 3. Store it.
	if err := s.store.CreateBook(ctx, book); err != nil {
		s.logger.Error("Failed to store book", "error", err, "book_id", bookID)
		return nil, domainerrors.NotFound(MsgAddFailed).WithCause(err)
	}

	// 4. Confirm it is retrievable.
	created, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		s.logger.Error("Book missing after insert", "error", err, "book_id", bookID)
		return nil, domainerrors.NotFound(MsgAddFailed).WithCause(err)
	}

	s.logger.Info("book added", "book_id", created.ID, "name", created.Name)
	return created, nil
}

// ListBooks returns the list view of books matching the filter.
func (s *BookService) ListBooks(ctx context.Context, filter ListFilter) ([]domain.BookSummary, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, msgStoreUnavailable)
	}

	selected := filter.apply(books)

	summaries := make([]domain.BookSummary, 0, len(selected))
	for _, b := range selected {
		summaries = append(summaries, b.ListView())
	}
	return summaries, nil
}

// GetBook returns the full record for a book.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, s.translateStoreError(err, MsgBookNotFound)
	}
	return book, nil
}

// EditBook replaces every editable field of an existing book.
// Validation runs before the existence check.
func (s *BookService) EditBook(ctx context.Context, bookID string, in BookInput) (*domain.Book, error) {
	// 1. Validate payload.
	if err := s.validate(in); err != nil {
		return nil, err
	}

	// 2. Load the current record.
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, s.translateStoreError(err, MsgUpdateNotFound)
	}

	// 3. Apply and persist.
	in.applyTo(book)
	book.Touch(s.now())

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, s.translateStoreError(err, MsgUpdateNotFound)
	}

	s.logger.Info("book updated", "book_id", book.ID)
	return book, nil
}

// DeleteBook removes a book from the shelf.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return s.translateStoreError(err, MsgDeleteNotFound)
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// validate checks the payload and reports the first failing rule.
// A missing name takes precedence over a page range problem.
func (s *BookService) validate(in BookInput) error {
	err := s.validator.Validate(in)
	if err == nil {
		return nil
	}

	// Only two rules exist: name is required and readPage <= pageCount.
	fields := validation.DetailsOf(err)
	if _, ok := fields[fieldName]; ok {
		return domainerrors.Validation(MsgNameRequired).WithDetails(fields)
	}
	return domainerrors.Validation(MsgReadPageExceeds).WithDetails(fields)
}

// translateStoreError maps store lookups to a not-found error with the given message.
func (s *BookService) translateStoreError(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrBookNotFound) {
		return domainerrors.NotFound(notFoundMsg)
	}
	s.logger.Error("Book store failure", "error", err)
	return domainerrors.Wrap(err, domainerrors.CodeInternal, msgStoreUnavailable)
}
