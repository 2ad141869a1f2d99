package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/listenupapp/bookshelf-server/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf-server/internal/errors"
	"github.com/listenupapp/bookshelf-server/internal/logger"
	"github.com/listenupapp/bookshelf-server/internal/store"
	"github.com/listenupapp/bookshelf-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out a fixed time that tests advance explicitly.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func ptr[T any](v T) *T { return &v }

func setupBookService(t *testing.T) (*BookService, *fakeClock) {
	t.Helper()

	log := logger.Discard().Logger
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookService(store.New(log), validation.New(), log, WithClock(clock.Now))
	return svc, clock
}

func duneInput() BookInput {
	return BookInput{
		Name:      ptr("Dune"),
		Year:      1965,
		Author:    "Frank Herbert",
		Summary:   "Desert planet politics.",
		Publisher: "Chilton",
		PageCount: ptr(412),
		ReadPage:  ptr(412),
		Reading:   false,
	}
}

func assertDomainError(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, status, domainErr.HTTPStatus())
	assert.Equal(t, msg, domainErr.Message)
}

func TestAddBook_Success(t *testing.T) {
	svc, clock := setupBookService(t)
	ctx := context.Background()

	book, err := svc.AddBook(ctx, duneInput())
	require.NoError(t, err)

	assert.Len(t, book.ID, 16)
	assert.Equal(t, "Dune", book.Name)
	assert.True(t, book.Finished)
	assert.Equal(t, clock.Now(), book.InsertedAt)
	assert.Equal(t, book.InsertedAt, book.UpdatedAt)

	got, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book, got)
}

func TestAddBook_FinishedDerived(t *testing.T) {
	svc, _ := setupBookService(t)

	in := duneInput()
	in.ReadPage = ptr(100)

	book, err := svc.AddBook(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, book.Finished)
}

func TestAddBook_ValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		input BookInput
		msg   string
	}{
		{
			name:  "missing name",
			input: BookInput{Year: 1965, PageCount: ptr(100), ReadPage: ptr(0)},
			msg:   MsgNameRequired,
		},
		{
			name:  "missing name wins over page range",
			input: BookInput{PageCount: ptr(100), ReadPage: ptr(150)},
			msg:   MsgNameRequired,
		},
		{
			name:  "read page exceeds page count",
			input: BookInput{Name: ptr("X"), PageCount: ptr(100), ReadPage: ptr(150)},
			msg:   MsgReadPageExceeds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupBookService(t)

			book, err := svc.AddBook(context.Background(), tt.input)
			assert.Nil(t, book)
			assertDomainError(t, err, http.StatusBadRequest, tt.msg)

			list, err := svc.ListBooks(context.Background(), ListFilter{})
			require.NoError(t, err)
			assert.Empty(t, list, "nothing stored on validation failure")
		})
	}
}

func TestAddBook_EmptyNameAccepted(t *testing.T) {
	svc, _ := setupBookService(t)

	book, err := svc.AddBook(context.Background(), BookInput{Name: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "", book.Name)
	assert.True(t, book.Finished, "absent page counters are both zero")
}

func TestAddBook_PageRangeNeedsBothCounters(t *testing.T) {
	svc, _ := setupBookService(t)

	_, err := svc.AddBook(context.Background(), BookInput{Name: ptr("X"), ReadPage: ptr(50)})
	assert.NoError(t, err)
}

func TestAddBook_IDGenerationFailure(t *testing.T) {
	log := logger.Discard().Logger
	svc := NewBookService(store.New(log), validation.New(), log,
		WithIDGenerator(func() (string, error) { return "", errors.New("no entropy") }))

	_, err := svc.AddBook(context.Background(), duneInput())

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus())
}

// vanishingStore accepts writes but never finds them again.
type vanishingStore struct {
	*store.MemoryStore
}

func (vanishingStore) GetBook(context.Context, string) (*domain.Book, error) {
	return nil, store.ErrBookNotFound
}

func TestAddBook_NotRetrievableAfterInsert(t *testing.T) {
	log := logger.Discard().Logger
	svc := NewBookService(vanishingStore{store.New(log)}, validation.New(), log)

	book, err := svc.AddBook(context.Background(), duneInput())

	assert.Nil(t, book)
	assertDomainError(t, err, http.StatusNotFound, MsgAddFailed)
}

func TestAddBook_DuplicateIDFails(t *testing.T) {
	log := logger.Discard().Logger
	svc := NewBookService(store.New(log), validation.New(), log,
		WithIDGenerator(func() (string, error) { return "same-id", nil }))
	ctx := context.Background()

	_, err := svc.AddBook(ctx, duneInput())
	require.NoError(t, err)

	_, err = svc.AddBook(ctx, duneInput())
	assertDomainError(t, err, http.StatusNotFound, MsgAddFailed)
}

func TestGetBook_NotFound(t *testing.T) {
	svc, _ := setupBookService(t)

	_, err := svc.GetBook(context.Background(), "missing")
	assertDomainError(t, err, http.StatusNotFound, MsgBookNotFound)
}

func TestEditBook_Success(t *testing.T) {
	svc, clock := setupBookService(t)
	ctx := context.Background()

	created, err := svc.AddBook(ctx, duneInput())
	require.NoError(t, err)

	clock.Advance(time.Hour)

	edit := BookInput{
		Name:      ptr("Dune Messiah"),
		Year:      1969,
		Author:    "Frank Herbert",
		Publisher: "Putnam",
		PageCount: ptr(256),
		ReadPage:  ptr(10),
		Reading:   true,
	}
	updated, err := svc.EditBook(ctx, created.ID, edit)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.InsertedAt, updated.InsertedAt)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, "Dune Messiah", updated.Name)
	assert.Equal(t, "", updated.Summary, "fields are replaced, not merged")
	assert.False(t, updated.Finished)
	assert.True(t, updated.Reading)

	got, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestEditBook_RecomputesFinished(t *testing.T) {
	svc, _ := setupBookService(t)
	ctx := context.Background()

	in := duneInput()
	in.ReadPage = ptr(1)
	created, err := svc.AddBook(ctx, in)
	require.NoError(t, err)
	require.False(t, created.Finished)

	updated, err := svc.EditBook(ctx, created.ID, duneInput())
	require.NoError(t, err)
	assert.True(t, updated.Finished)
}

func TestEditBook_ValidationPrecedesExistence(t *testing.T) {
	tests := []struct {
		name   string
		input  BookInput
		status int
		msg    string
	}{
		{"missing name", BookInput{PageCount: ptr(10), ReadPage: ptr(1)}, http.StatusBadRequest, MsgNameRequired},
		{"page range", BookInput{Name: ptr("X"), PageCount: ptr(10), ReadPage: ptr(11)}, http.StatusBadRequest, MsgReadPageExceeds},
		{"valid payload unknown id", BookInput{Name: ptr("X"), PageCount: ptr(10), ReadPage: ptr(1)}, http.StatusNotFound, MsgUpdateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupBookService(t)

			_, err := svc.EditBook(context.Background(), "does-not-exist", tt.input)
			assertDomainError(t, err, tt.status, tt.msg)
		})
	}
}

func TestDeleteBook(t *testing.T) {
	svc, _ := setupBookService(t)
	ctx := context.Background()

	created, err := svc.AddBook(ctx, duneInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, created.ID))

	_, err = svc.GetBook(ctx, created.ID)
	assertDomainError(t, err, http.StatusNotFound, MsgBookNotFound)

	err = svc.DeleteBook(ctx, created.ID)
	assertDomainError(t, err, http.StatusNotFound, MsgDeleteNotFound)
}

func seedShelf(t *testing.T, svc *BookService) map[string]string {
	t.Helper()

	books := []BookInput{
		{Name: ptr("Dicoding Go"), Publisher: "Dicoding", PageCount: ptr(100), ReadPage: ptr(100), Reading: false},
		{Name: ptr("Learning Go"), Publisher: "O'Reilly", PageCount: ptr(300), ReadPage: ptr(20), Reading: true},
		{Name: ptr("Emma"), Publisher: "Murray", PageCount: ptr(500), ReadPage: ptr(0), Reading: false},
	}

	ids := make(map[string]string, len(books))
	for _, in := range books {
		b, err := svc.AddBook(context.Background(), in)
		require.NoError(t, err)
		ids[b.Name] = b.ID
	}
	return ids
}

func names(summaries []domain.BookSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Name)
	}
	return out
}

func TestListBooks_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"no filter", ListFilter{}, []string{"Dicoding Go", "Learning Go", "Emma"}},
		{"name case insensitive", ListFilter{Name: ptr("GO")}, []string{"Dicoding Go", "Learning Go"}},
		{"name no match", ListFilter{Name: ptr("tolkien")}, []string{}},
		{"empty name matches all", ListFilter{Name: ptr("")}, []string{"Dicoding Go", "Learning Go", "Emma"}},
		{"reading 1", ListFilter{Reading: ptr("1")}, []string{"Learning Go"}},
		{"reading 0", ListFilter{Reading: ptr("0")}, []string{"Dicoding Go", "Emma"}},
		{"reading true", ListFilter{Reading: ptr("true")}, []string{"Learning Go"}},
		{"reading empty means false", ListFilter{Reading: ptr("")}, []string{"Dicoding Go", "Emma"}},
		{"reading garbage matches nothing", ListFilter{Reading: ptr("maybe")}, []string{}},
		{"finished 1", ListFilter{Finished: ptr("1")}, []string{"Dicoding Go"}},
		{"finished 0", ListFilter{Finished: ptr("0")}, []string{"Learning Go", "Emma"}},
		// Only the last supplied filter applies.
		{"name then reading", ListFilter{Name: ptr("emma"), Reading: ptr("1")}, []string{"Learning Go"}},
		{"reading then finished", ListFilter{Reading: ptr("1"), Finished: ptr("1")}, []string{"Dicoding Go"}},
		{"all three", ListFilter{Name: ptr("learning"), Reading: ptr("1"), Finished: ptr("0")}, []string{"Learning Go", "Emma"}},
	}

	svc, _ := setupBookService(t)
	seedShelf(t, svc)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListBooks(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestListBooks_NameMatchesLowercaseOnly(t *testing.T) {
	svc, _ := setupBookService(t)
	for _, name := range []string{"Die Straße", "Grasse Nights"} {
		_, err := svc.AddBook(context.Background(), BookInput{Name: ptr(name), PageCount: ptr(10), ReadPage: ptr(0)})
		require.NoError(t, err)
	}

	got, err := svc.ListBooks(context.Background(), ListFilter{Name: ptr("SS")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grasse Nights"}, names(got))

	got, err = svc.ListBooks(context.Background(), ListFilter{Name: ptr("STRAßE")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Die Straße"}, names(got))
}

func TestListBooks_SummaryFields(t *testing.T) {
	svc, _ := setupBookService(t)
	ids := seedShelf(t, svc)

	got, err := svc.ListBooks(context.Background(), ListFilter{Name: ptr("emma")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.BookSummary{ID: ids["Emma"], Name: "Emma", Publisher: "Murray"}, got[0])
}

func TestListBooks_EmptyShelf(t *testing.T) {
	svc, _ := setupBookService(t)

	got, err := svc.ListBooks(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
