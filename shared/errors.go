package shared

import (
	"errors"
	"net/http"
)

// AppError is the error type handlers and services return when the failure
// should reach the caller with a specific status and public message. Anything
// else surfaces as a generic 500.
type AppError struct {
	StatusCode int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, message string, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	if message == "" {
		message = "Bad Request"
	}
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewUnauthorizedError(err error, message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message, Err: err}
}

func NewNotFoundError(err error, message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return &AppError{StatusCode: http.StatusNotFound, Message: message, Err: err}
}

func NewRateLimitError(message string) *AppError {
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	return &AppError{StatusCode: http.StatusTooManyRequests, Message: message}
}

func NewInternalError(err error, message string) *AppError {
	if message == "" {
		message = "Internal Server Error"
	}
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// GetAppError unwraps err to an *AppError if one is in the chain.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
