// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIError represents a structured API error response. Message is the
// user-facing text, Detail an optional second line.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Detail  string `json:"message,omitempty"`

	cause error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying failure, if any.
func (e *APIError) Unwrap() error { return e.cause }

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s bulunamadı: %s", resource, id),
	}
}

// NewTooLargeError creates the 413 returned for oversized uploads.
func NewTooLargeError(maxMB int64) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Message: "Dosya boyutu çok büyük",
		Detail:  fmt.Sprintf("Maksimum dosya boyutu: %dMB", maxMB),
	}
}

// NewInternalError creates a 500 Internal Server Error. The cause is
// appended to the message when the server exposes errors.
func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: message,
		cause:   cause,
	}
}

// ErrorHandlerConfig controls NewErrorHandler.
type ErrorHandlerConfig struct {
	// ExposeErrors embeds raw error text in 500 responses.
	ExposeErrors bool
	MaxUploadMB  int64
	Logger       *zap.Logger
}

// NewErrorHandler returns an echo.HTTPErrorHandler rendering APIError bodies.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(cfg)
func NewErrorHandler(cfg ErrorHandlerConfig) echo.HTTPErrorHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		apiErr := toAPIError(err, cfg.MaxUploadMB)
		body := *apiErr
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", apiErr.Status),
				zap.Error(err),
				zap.Stack("stack"))
			if cfg.ExposeErrors {
				body.Message = apiErr.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(body.Status)
			return
		}
		_ = c.JSON(body.Status, body)
	}
}

func toAPIError(err error, maxUploadMB int64) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusRequestEntityTooLarge {
			return NewTooLargeError(maxUploadMB)
		}
		if he.Code >= http.StatusInternalServerError {
			return NewInternalError(http.StatusText(he.Code), he)
		}
		return &APIError{Status: he.Code, Message: fmt.Sprintf("%v", he.Message)}
	}

	return NewInternalError("Beklenmeyen bir hata oluştu", err)
}
