package errors

import (
	"net/http"

	"journal/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Entry-related errors. The gateway deliberately distinguishes "absent"
	// from "owned by someone else"; the messages mirror the wire contract.
	ErrEntryNotFound = NewBaseError(
		http.StatusNotFound,
		"ENTRY_NOT_FOUND",
		"Not found",
		"",
	)

	ErrEntryOwnership = NewBaseError(
		http.StatusForbidden,
		"ENTRY_OWNERSHIP_VIOLATION",
		"Unauthorized",
		"",
	)

	// Request errors
	ErrInvalidBody = NewBaseError(
		http.StatusBadRequest,
		"INVALID_BODY",
		"Missing or invalid request body.",
		"",
	)

	ErrUnknownAction = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_ACTION",
		"Unknown action.",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		"",
	)

	// Authentication errors
	ErrMissingBearerToken = NewBaseError(
		http.StatusUnauthorized,
		"MISSING_BEARER_TOKEN",
		"Missing Authorization Bearer token.",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Invalid or expired token.",
		"",
	)

	// Completion proxy errors
	ErrMissingPrompt = NewBaseError(
		http.StatusBadRequest,
		"MISSING_PROMPT",
		`Missing "prompt" in request body.`,
		"",
	)

	ErrCompletionKeyMissing = NewBaseError(
		http.StatusInternalServerError,
		"COMPLETION_KEY_MISSING",
		"Completion API key is not configured.",
		"",
	)

	ErrCompletionContract = NewBaseError(
		http.StatusInternalServerError,
		"COMPLETION_CONTRACT_VIOLATION",
		"Invalid response structure from completion API.",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// StoreExecuteError represents a document store execution error, implementing the AppError interface
type StoreExecuteError struct {
	err     error
	details string
}

// NewStoreExecuteError creates a store-related error
func NewStoreExecuteError(err error, details string) AppError {
	return &StoreExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StoreExecuteError) Error() string {
	return errors.Wrap(e.err, "document store execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *StoreExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StoreExecuteError) ErrorCode() string {
	return "STORE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *StoreExecuteError) Message() string {
	return "Failed to access journal entries"
}

// Details returns detailed error information
func (e *StoreExecuteError) Details() string {
	return e.details
}

// Unwrap exposes the underlying store error.
func (e *StoreExecuteError) Unwrap() error {
	return e.err
}
