package service

import (
	"fmt"

	"github.com/pkg/errors"
)

// Domain errors
var (
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrItemNotInOrder       = errors.New("order item does not belong to the order")
	ErrSessionNotActive     = errors.New("route session is not active")
	ErrSessionAlreadyActive = errors.New("driver already has an active route session")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInactiveUser         = errors.New("user is inactive")
	ErrUnauthenticated      = errors.New("not authenticated")
)

// ValidationError reports a request that is well-formed but not acceptable
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a validation error
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
