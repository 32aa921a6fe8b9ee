package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
		assert.Equal(t, "bad input", err.Error())
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	})

	t.Run("NewWithDetails carries details", func(t *testing.T) {
		err := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "missing", "dataset")
		assert.Equal(t, "dataset", err.Details)
	})
}

func TestSchemaError(t *testing.T) {
	tests := []struct {
		name     string
		err      *SchemaError
		contains string
	}{
		{
			name:     "ordinal error names the missing position",
			err:      NewSchemaOrdinalError("amount", 11, 5),
			contains: "position 11",
		},
		{
			name:     "name error carries the reason",
			err:      NewSchemaNameError("date", "no header contains Date"),
			contains: "no header contains Date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("passes through APIError", func(t *testing.T) {
		orig := New(http.StatusBadRequest, "INVALID_PARAMETER", "bad dimension")
		assert.Same(t, orig, ToAPIError(orig))
	})

	t.Run("maps SchemaError to 422", func(t *testing.T) {
		apiErr := ToAPIError(NewSchemaOrdinalError("code", 2, 1))
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "SCHEMA_RESOLUTION_FAILED", apiErr.ErrorCode)
	})

	t.Run("maps SheetError to 422", func(t *testing.T) {
		apiErr := ToAPIError(&SheetError{Sheet: "Prestation", Reason: "not present"})
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "SHEET_NOT_FOUND", apiErr.ErrorCode)
	})

	t.Run("wraps unknown errors as pipeline failure", func(t *testing.T) {
		apiErr := ToAPIError(fmt.Errorf("boom"))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "PIPELINE_FAILED", apiErr.ErrorCode)
	})
}

func TestParseError(t *testing.T) {
	cause := fmt.Errorf("invalid syntax")
	err := &ParseError{Row: 7, Column: "amount", Value: "abc", Cause: cause}
	assert.Contains(t, err.Error(), "row 7")
	assert.Contains(t, err.Error(), `"abc"`)
	assert.ErrorIs(t, err, cause)
}
