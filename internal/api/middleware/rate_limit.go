package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/utils/response"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

// RateLimit throttles each authenticated user by key prefix. It must run after
// Authenticate. When the limiter itself fails the request is let through.
func RateLimit(limiter RateLimiter, prefix string) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, errors.UnauthorizedError("Authentication required"))
				return
			}

			key := prefix + ":" + strconv.FormatInt(claims.UserID, 10)

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, errors.TooManyRequestsError("Too many requests, try again later"))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		}
	}
}
