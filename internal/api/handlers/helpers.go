package handlers

import (
	"log/slog"
	"net/http"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils/response"
)

// requireClaims writes a 401 and returns false when the request carries no identity.
func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
	if !ok || claims == nil {
		logger.Warn("Unauthorized cart access attempt: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}
