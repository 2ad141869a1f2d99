package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/listenupapp/bookshelf-server/internal/domain"
	"github.com/listenupapp/bookshelf-server/internal/http/response"
	"github.com/listenupapp/bookshelf-server/internal/service"
)

// BookIDResponse is the payload returned after a book is added.
type BookIDResponse struct {
	BookID string `json:"bookId"`
}

// BookListResponse is the payload for the list endpoint.
type BookListResponse struct {
	Books []domain.BookSummary `json:"books"`
}

// BookResponse is the payload for the detail endpoint.
type BookResponse struct {
	Book *domain.Book `json:"book"`
}

// handleAddBook creates a book from the JSON body.
func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var in service.BookInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.logger.Debug("Rejected add book body", "error", err)
		response.BadRequest(w, msgInvalidBody, s.logger)
		return
	}

	book, err := s.bookService.AddBook(r.Context(), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, service.MsgBookAdded, BookIDResponse{BookID: book.ID}, s.logger)
}

// handleListBooks returns the shelf, optionally filtered by name, reading or finished.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context(), listFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", BookListResponse{Books: books}, s.logger)
}

// handleGetBook returns one full book record.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.GetBook(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", BookResponse{Book: book}, s.logger)
}

// handleEditBook replaces the editable fields of a book.
func (s *Server) handleEditBook(w http.ResponseWriter, r *http.Request) {
	var in service.BookInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.logger.Debug("Rejected edit book body", "error", err)
		response.BadRequest(w, msgInvalidBody, s.logger)
		return
	}

	if _, err := s.bookService.EditBook(r.Context(), chi.URLParam(r, "bookId"), in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, service.MsgBookUpdated, nil, s.logger)
}

// handleDeleteBook removes a book.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.bookService.DeleteBook(r.Context(), chi.URLParam(r, "bookId")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, service.MsgBookDeleted, nil, s.logger)
}

// listFilterFromQuery keeps the difference between an absent parameter and an empty one.
func listFilterFromQuery(r *http.Request) service.ListFilter {
	query := r.URL.Query()

	param := func(key string) *string {
		if !query.Has(key) {
			return nil
		}
		v := query.Get(key)
		return &v
	}

	return service.ListFilter{
		Name:     param("name"),
		Reading:  param("reading"),
		Finished: param("finished"),
	}
}
