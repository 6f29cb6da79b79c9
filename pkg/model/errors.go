package model

import "fmt"

// ErrorCode represents a structured error code in JSON responses.
type ErrorCode string

// ErrInternal marks a failure inside BlogFront or one of its dependencies.
const ErrInternal ErrorCode = "INTERNAL_ERROR"

// APIError is a structured error returned by BlogFront's own JSON endpoints.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewUnavailableError creates an INTERNAL_ERROR APIError for a failed dependency.
func NewUnavailableError(dependency string, err error) *APIError {
	return &APIError{
		Code:    ErrInternal,
		Message: fmt.Sprintf("%s unavailable: %v", dependency, err),
	}
}
