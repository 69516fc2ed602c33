// Package response writes the JSON envelope shared by every endpoint:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": {"code": ..., "message": ..., "details": [...]}}
package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON encodes body with the given status. The header is already sent
// when encoding fails, so the failure is only logged.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", slog.Int("status", status), slog.Any("error", err))
	}
}

func Success(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, APIResponse{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders AppErrors as they are. Any other error is reported as a
// generic 500 so driver and wrapping text never reach the client.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		})
		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	writeError(w, appErr.StatusCode, body)
}

// InvalidBody reports a request body that could not be read or decoded.
func InvalidBody(w http.ResponseWriter, cause error) {
	writeError(w, http.StatusBadRequest, &ErrorResponse{
		Code:    errors.ErrCodeBadRequest,
		Message: "Invalid request body",
		Details: []string{cause.Error()},
	})
}

// ValidationError lists one readable message per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	writeError(w, http.StatusBadRequest, &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	})
}

func writeError(w http.ResponseWriter, status int, body *ErrorResponse) {
	WriteJSON(w, status, APIResponse{Success: false, Error: body})
}

func fieldMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", field)
	case "url":
		return fmt.Sprintf("Field %s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("Field %s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("Field %s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("Field %s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("Field %s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", field, fe.Tag(), param)
	}
}
