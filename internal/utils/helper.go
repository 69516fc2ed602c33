package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/easyshop/easyshop-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes the JSON body into dest and validates it, writing
// a 400 response and returning false on failure.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.InvalidBody(w, err)
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.InvalidBody(w, errors.New("invalid input data"))
		return false
	}

	return true

}
