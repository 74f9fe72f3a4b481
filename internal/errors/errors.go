// Package errors defines the domain error taxonomy shared by services
// and handlers. Services return *DomainError values and callers branch
// with errors.Is against the category sentinels; handlers map Code to an
// HTTP status at the boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error category codes.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeForbidden              = "FORBIDDEN"
	CodeConflict               = "CONFLICT"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeExternalServiceFailure = "EXTERNAL_SERVICE_FAILURE"
	CodeCriticalInconsistency  = "CRITICAL_INCONSISTENCY"
)

// DomainError is the error currency of the service layer. Message is
// safe to show to clients; Err carries an optional internal cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so
// errors.Is(err, ErrConflict) holds regardless of the message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Category sentinels for errors.Is checks.
var (
	ErrValidation             = &DomainError{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound               = &DomainError{Code: CodeNotFound, Message: "resource not found"}
	ErrForbidden              = &DomainError{Code: CodeForbidden, Message: "forbidden"}
	ErrConflict               = &DomainError{Code: CodeConflict, Message: "conflict"}
	ErrInvalidStateTransition = &DomainError{Code: CodeInvalidStateTransition, Message: "invalid state transition"}
	ErrInsufficientFunds      = &DomainError{Code: CodeInsufficientFunds, Message: "insufficient funds"}
	ErrExternalServiceFailure = &DomainError{Code: CodeExternalServiceFailure, Message: "external service failure"}
	ErrCriticalInconsistency  = &DomainError{Code: CodeCriticalInconsistency, Message: "critical inconsistency"}
)

// Validation builds a VALIDATION_ERROR with a formatted message.
func Validation(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NOT_FOUND with a formatted message.
func NotFound(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds a FORBIDDEN with a formatted message.
func Forbidden(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a CONFLICT with a formatted message.
func Conflict(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidStateTransition builds an INVALID_STATE_TRANSITION with a
// formatted message.
func InvalidStateTransition(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeInvalidStateTransition, Message: fmt.Sprintf(format, args...)}
}

// InsufficientFunds builds an INSUFFICIENT_FUNDS with a formatted message.
func InsufficientFunds(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

// ExternalServiceFailure builds an EXTERNAL_SERVICE_FAILURE wrapping the
// upstream cause.
func ExternalServiceFailure(message string, cause error) *DomainError {
	return &DomainError{Code: CodeExternalServiceFailure, Message: message, Err: cause}
}

// CriticalInconsistency builds a CRITICAL_INCONSISTENCY with a formatted
// message. These demand operator attention; callers log them before
// returning.
func CriticalInconsistency(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: CodeCriticalInconsistency, Message: fmt.Sprintf(format, args...)}
}

// IsDeterministic reports whether a failure is a stable property of the
// request itself, meaning a retry with the same idempotency key must
// fail the same way. Conflicts and infrastructure errors are not
// deterministic: a retry may legitimately succeed.
func IsDeterministic(err error) bool {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return false
	}
	switch de.Code {
	case CodeValidation, CodeNotFound, CodeForbidden, CodeInsufficientFunds, CodeInvalidStateTransition:
		return true
	}
	return false
}

// HTTPStatus maps an error to the HTTP status the API returns for it.
// Non-domain errors map to 500.
func HTTPStatus(err error) int {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict, CodeInvalidStateTransition:
		return http.StatusConflict
	case CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case CodeExternalServiceFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Payload is the JSON body the API returns for a domain error and the
// shape stored for idempotent replay of failed operations.
func Payload(err error) map[string]interface{} {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return map[string]interface{}{"error": "internal server error"}
	}
	return map[string]interface{}{"error": de.Message, "code": de.Code}
}
