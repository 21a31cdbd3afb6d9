// Package response implements the wire-level response shapes of the gateway.
// Success bodies are the raw payloads; failures are always
// {"error": <message>} with an optional "details" field. No stack trace or
// internal error text reaches the caller through these helpers.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform failure payload.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Error writes a failure response.
func Error(c echo.Context, statusCode int, message string, details any) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorBody{
		Error:   message,
		Details: details,
	})
}

// BadRequest 400 error
func BadRequest(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, message, nil)
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, message string) error {
	return Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden 403 error
func Forbidden(c echo.Context, message string) error {
	return Error(c, http.StatusForbidden, message, nil)
}

// NotFound 404 error
func NotFound(c echo.Context, message string) error {
	return Error(c, http.StatusNotFound, message, nil)
}

// MethodNotAllowed 405 error
func MethodNotAllowed(c echo.Context) error {
	return Error(c, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message, nil)
}
