// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError reports every violation found at once: business rule
// messages in Errors, request tag failures keyed by field in Fields.
type ValidationError struct {
	Detail string            `json:"detail"`
	Errors []string          `json:"errors,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

func NewValidationList(errs []string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Errors: errs}
}
