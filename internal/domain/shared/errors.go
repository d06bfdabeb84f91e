package shared

import "fmt"

// DomainError represents a business-rule violation that is safe to show
// to API callers. Code maps to an HTTP status at the interface boundary.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotUniqueError creates the user-facing error raised when a unique
// key collides, interpolating the offending field and value.
func NewNotUniqueError(field, value string) *DomainError {
	return &DomainError{
		Code:    "NOT_UNIQUE",
		Message: fmt.Sprintf("%s '%s' is not unique", field, value),
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrSystem        = NewDomainError("SYSTEM_ERROR", "An internal error occurred")
)
