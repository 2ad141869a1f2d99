// Package api provides the HTTP API server and handlers for the bookshelf.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/listenupapp/bookshelf-server/internal/config"
	"github.com/listenupapp/bookshelf-server/internal/http/response"
	"github.com/listenupapp/bookshelf-server/internal/ratelimit"
	"github.com/listenupapp/bookshelf-server/internal/service"
)

const (
	msgRouteNotFound    = "resource not found"
	msgMethodNotAllowed = "method not allowed"
	msgInvalidBody      = "invalid request body"
	msgInternalError    = "internal server error"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	bookService *service.BookService
	limiter     *ratelimit.KeyedRateLimiter
	cors        config.CORSConfig
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables rate limiting.
func NewServer(bookService *service.BookService, corsCfg config.CORSConfig, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		bookService: bookService,
		limiter:     limiter,
		cors:        corsCfg,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Limit on the connection peer, before RealIP rewrites RemoteAddr from headers.
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}

	s.router.Use(middleware.RealIP)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, msgRouteNotFound, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, msgMethodNotAllowed, s.logger)
	})

	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/books", func(r chi.Router) {
		r.Post("/", s.handleAddBook)
		r.Get("/", s.handleListBooks)
		r.Get("/{bookId}", s.handleGetBook)
		r.Put("/{bookId}", s.handleEditBook)
		r.Delete("/{bookId}", s.handleDeleteBook)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, "", map[string]string{
		"status": "healthy",
	}, s.logger)
}
