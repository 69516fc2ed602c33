package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

var UserContextKey = contextKey("user")

type AuthMiddleware struct {
	jwtKey []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{
		jwtKey: jwtKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}

}

// Authenticate rejects requests without a valid HS256 bearer token and puts
// the token claims into the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		token, err := m.parser.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
			return m.jwtKey, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid || claims.UserID <= 0 {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(slog.Int64("user_id", claims.UserID))
		ctx = WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin route denied", slog.String("role", claims.Role))
			response.Error(w, errors.ForbiddenError("Admin role required"))
			return
		}

		next.ServeHTTP(w, r)
	}
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok && claims != nil
}
