package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"example.com/backstage/services/routedelivery/internal/metrics"
	"example.com/backstage/services/routedelivery/internal/repository"
	"example.com/backstage/services/routedelivery/internal/service"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error represents an API error
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Common API errors
var (
	ErrInvalidRequest     = &Error{Message: "Invalid request", StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST"}
	ErrNotFound           = &Error{Message: "Resource not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrInternalServer     = &Error{Message: "Internal server error", StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
	ErrUnauthorized       = &Error{Message: "Unauthorized", StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
	ErrConflict           = &Error{Message: "Resource already exists", StatusCode: http.StatusConflict, Code: "CONFLICT"}
	ErrServiceUnavailable = &Error{Message: "Service unavailable", StatusCode: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE"}
)

// NewValidationError creates a new validation error with a custom message
func NewValidationError(message string) *Error {
	return &Error{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
	}
}

// NewError creates a new API error with custom details
func NewError(message string, statusCode int, code string) *Error {
	return &Error{
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// mapServiceError translates repository and service errors into API errors.
// Unknown errors are returned unchanged.
func mapServiceError(err error) error {
	var apiError *Error
	if errors.As(err, &apiError) {
		return apiError
	}

	var validationError *service.ValidationError
	switch {
	case errors.As(err, &validationError):
		return NewValidationError(validationError.Message)
	case errors.Is(err, service.ErrInvalidTransition):
		return NewError(err.Error(), http.StatusConflict, "INVALID_TRANSITION")
	case errors.Is(err, service.ErrItemNotInOrder):
		return NewError(err.Error(), http.StatusBadRequest, "ITEM_NOT_IN_ORDER")
	case errors.Is(err, service.ErrSessionNotActive):
		return NewError(err.Error(), http.StatusBadRequest, "SESSION_NOT_ACTIVE")
	case errors.Is(err, service.ErrSessionAlreadyActive):
		return NewError(err.Error(), http.StatusConflict, "SESSION_ALREADY_ACTIVE")
	case errors.Is(err, service.ErrInvalidCredentials):
		return NewError("Invalid username or password", http.StatusUnauthorized, "INVALID_CREDENTIALS")
	case errors.Is(err, service.ErrInactiveUser):
		return NewError("User is inactive", http.StatusUnauthorized, "USER_INACTIVE")
	case errors.Is(err, service.ErrUnauthenticated):
		return ErrUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return ErrConflict
	}
	return err
}

// errorType classifies an API error for metrics
func errorType(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return metrics.ErrorTypeValidation
	case http.StatusNotFound:
		return metrics.ErrorTypeNotFound
	case http.StatusConflict:
		return metrics.ErrorTypeConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return metrics.ErrorTypeAuth
	default:
		return metrics.ErrorTypeInternal
	}
}

// WriteError writes an error response and aborts the request
func WriteError(c *gin.Context, err error) {
	collector := metrics.GetMetricsCollector()

	var apiError *Error
	if errors.As(mapServiceError(err), &apiError) {
		collector.RecordError(errorType(apiError.StatusCode))
		c.AbortWithStatusJSON(apiError.StatusCode, ErrorResponse{
			Message: apiError.Message,
			Code:    apiError.Code,
		})
		return
	}

	// Log unknown errors
	logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
	collector.RecordError(metrics.ErrorTypeInternal)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Message: ErrInternalServer.Message,
		Code:    ErrInternalServer.Code,
	})
}
