package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/models"
)

// CreateTestRequestWithContext builds a request carrying claims for userID
// and a discarding logger, as the auth and logging middleware would.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID int64, pathParams map[string]string) *http.Request {
	claims := &models.Claims{UserID: userID, Username: "tester", Role: models.RoleUser}

	return CreateTestRequestWithClaims(method, target, body, claims, pathParams)
}

func CreateTestRequestWithClaims(method, target string, body io.Reader, claims *models.Claims, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}
