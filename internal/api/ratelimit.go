package api

import (
	"log/slog"
	"net"
	"net/http"

	domainerrors "github.com/listenupapp/bookshelf-server/internal/errors"
	"github.com/listenupapp/bookshelf-server/internal/http/response"
	"github.com/listenupapp/bookshelf-server/internal/ratelimit"
)

// RateLimitMiddleware creates a middleware that rate limits requests by peer address.
// Returns 429 Too Many Requests when limit is exceeded.
// It must run before middleware.RealIP so forwarding headers cannot pick the bucket.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.HandleError(w, domainerrors.ErrRateLimited, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
