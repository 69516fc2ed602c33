package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils"
	"github.com/easyshop/easyshop-api/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{"Success", "42", 42, false},
		{"Failure - Missing", "", 0, true},
		{"Failure - Not A Number", "abc", 0, true},
		{"Failure - Zero", "0", 0, true},
		{"Failure - Negative", "-7", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart/products/x", nil)
			if tt.value != "" {
				req.SetPathValue("productId", tt.value)
			}

			id, err := utils.ParseID(req, "productId")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestValidatorDecimalFields(t *testing.T) {
	validate := utils.NewValidator()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Valid", `{"quantity": 5, "discount_percent": "0.10"}`, false},
		{"Valid - Numeric Discount", `{"quantity": 1, "discount_percent": 0}`, false},
		{"Invalid - Zero Quantity", `{"quantity": 0, "discount_percent": "0"}`, true},
		{"Invalid - Negative Quantity", `{"quantity": -1, "discount_percent": "0"}`, true},
		{"Invalid - Discount Above One", `{"quantity": 1, "discount_percent": "1.2"}`, true},
		{"Invalid - Negative Discount", `{"quantity": 1, "discount_percent": "-0.5"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req models.UpdateCartItemRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := utils.ValidateStruct(validate, req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity": 3}`))

		var dest models.UpdateCartItemRequest
		require.NoError(t, utils.DecodeJSONBody(req, &dest))
		assert.Equal(t, 3, dest.Quantity)
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(""))

		var dest models.UpdateCartItemRequest
		err := utils.DecodeJSONBody(req, &dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request body cannot be empty")
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":`))

		var dest models.UpdateCartItemRequest
		err := utils.DecodeJSONBody(req, &dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON format")
	})
}

func TestParseAndValidate(t *testing.T) {
	validate := utils.NewValidator()

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity": 2, "discount_percent": "0.25"}`))
		recorder := httptest.NewRecorder()

		var dest models.UpdateCartItemRequest
		ok := utils.ParseAndValidate(req, recorder, &dest, validate)

		assert.True(t, ok)
		assert.Equal(t, 2, dest.Quantity)
	})

	t.Run("Failure - Validation Errors Listed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity": 0, "discount_percent": "3"}`))
		recorder := httptest.NewRecorder()

		var dest models.UpdateCartItemRequest
		ok := utils.ParseAndValidate(req, recorder, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		recorder := httptest.NewRecorder()

		var dest models.UpdateCartItemRequest
		ok := utils.ParseAndValidate(req, recorder, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeBadRequest, resp.Error.Code)
		assert.Equal(t, "Invalid request body", resp.Error.Message)
	})
}
