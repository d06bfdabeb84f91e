package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeNotUnique, http.StatusConflict},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeInvalidState, http.StatusUnprocessableEntity},
		{CodeForbidden, http.StatusForbidden},
		{CodeTokenRequired, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeConnectionError, http.StatusBadGateway},
		{CodeTooLarge, http.StatusRequestEntityTooLarge},
		{CodeSystem, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, CodeHTTPStatus(tt.code))
		})
	}
}

func TestCodeHTTPStatus_UnknownCode(t *testing.T) {
	// Unknown domain codes are business-rule violations
	assert.Equal(t, http.StatusUnprocessableEntity, CodeHTTPStatus("SUPPLY_CLOSED"))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"count": 3})
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Code)
	assert.Nil(t, resp.Errors)
	assert.NotNil(t, resp.Data)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(CodeNotFound, "order not found")
	assert.False(t, resp.Success)
	assert.Equal(t, CodeNotFound, resp.Code)
	assert.Equal(t, "order not found", resp.Message)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("invalid request", map[string][]string{
		"title": {"title is required"},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, CodeValidation, resp.Code)
	assert.NotNil(t, resp.Errors)
}
