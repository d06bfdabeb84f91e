package dto

// Response is the uniform envelope for all API responses. Code is the
// machine-readable error code, Errors carries field-level validation
// messages keyed by field name. Both are empty on success.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// NewSuccessResponse creates a success envelope around data.
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessMessage creates a success envelope with a message and
// optional data.
func NewSuccessMessage(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates an error envelope.
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Message: message,
		Code:    code,
	}
}

// NewValidationErrorResponse creates an error envelope with per-field
// validation messages.
func NewValidationErrorResponse(message string, fields map[string][]string) Response {
	return Response{
		Success: false,
		Message: message,
		Code:    CodeValidation,
		Errors:  fields,
	}
}
