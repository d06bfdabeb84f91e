package dto

import "net/http"

// Error codes surfaced in the Code field of the response envelope.
// Domain errors arrive with their own codes; this list covers the
// codes the HTTP layer itself produces plus the domain codes it must
// map to statuses.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeNotUnique       = "NOT_UNIQUE"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeInvalidState    = "INVALID_STATE"
	CodeForbidden       = "FORBIDDEN"
	CodeTenantRequired  = "TENANT_REQUIRED"
	CodeTokenRequired   = "TOKEN_REQUIRED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeConnectionError = "CONNECTION_FAILED"
	CodeTooLarge        = "REQUEST_TOO_LARGE"
	CodeSystem          = "SYSTEM_ERROR"
)

// codeStatus maps error codes to HTTP statuses. Unknown codes are
// treated as business-rule violations.
var codeStatus = map[string]int{
	CodeValidation:      http.StatusBadRequest,
	CodeInvalidInput:    http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeNotUnique:       http.StatusConflict,
	CodeAlreadyExists:   http.StatusConflict,
	CodeInvalidState:    http.StatusUnprocessableEntity,
	CodeForbidden:       http.StatusForbidden,
	CodeTenantRequired:  http.StatusBadRequest,
	CodeTokenRequired:   http.StatusUnprocessableEntity,
	CodeRateLimited:     http.StatusTooManyRequests,
	CodeConnectionError: http.StatusBadGateway,
	CodeTooLarge:        http.StatusRequestEntityTooLarge,
	CodeSystem:          http.StatusInternalServerError,
}

// CodeHTTPStatus returns the HTTP status for an error code.
func CodeHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
