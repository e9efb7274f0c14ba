package http

import (
	"fmt"
	"net/http"
)

// AppError is an application-level error carrying the HTTP status and
// machine-readable code it should be reported with.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return &AppError{
		Code:    "ERR_NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NotFoundErrorf creates a 404 error with formatting.
func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return &AppError{
		Code:    "ERR_BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}
