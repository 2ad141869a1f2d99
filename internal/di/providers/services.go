package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf-server/internal/logger"
	"github.com/listenupapp/bookshelf-server/internal/service"
	"github.com/listenupapp/bookshelf-server/internal/store"
	"github.com/listenupapp/bookshelf-server/internal/validation"
)

// ProvideStore provides the in-memory book store.
func ProvideStore(i do.Injector) (*store.MemoryStore, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return store.New(log.Logger), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	bookStore := do.MustInvoke[*store.MemoryStore](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(bookStore, v, log.Logger), nil
}
