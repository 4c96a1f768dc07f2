package common

import (
	"errors"
	"net/http"
)

// Canonical error codes used across the API surface.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUpstreamError    = "UPSTREAM_ERROR"
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// InvalidInput marks a request as malformed. Always client-recoverable.
func InvalidInput(message string) *AppError {
	return NewAppError(CodeInvalidInput, message, http.StatusBadRequest, nil)
}

// UpstreamError marks a failed call to an external dependency. Not retried here.
func UpstreamError(message string, err error) *AppError {
	return NewAppError(CodeUpstreamError, message, http.StatusInternalServerError, err)
}

// SignatureInvalid marks a failed payment signature check. Fails closed.
func SignatureInvalid(message string) *AppError {
	return NewAppError(CodeInvalidSignature, message, http.StatusBadRequest, nil)
}

// NotFound marks a missing resource.
func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, nil)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// AsAppError extracts an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var target *AppError
	if errors.As(err, &target) {
		return target
	}
	return NewAppError(CodeInternal, "internal error", http.StatusInternalServerError, err)
}
