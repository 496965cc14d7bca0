package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for the client's failure taxonomy
type ErrorType string

const (
	ErrorTypeNetwork       ErrorType = "NETWORK_ERROR"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeRequestFailed ErrorType = "REQUEST_FAILED"
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeConfiguration ErrorType = "CONFIGURATION_ERROR"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

// Messages shown when the server gives no detail of its own.
const (
	NetworkMessage       = "Network error. Please check your connection."
	RequestFailedMessage = "Request failed. Please try again."
	SessionExpiredMsg    = "Your session has expired. Please log in again."
)

// Common application errors
var (
	ErrNoSession      = errors.New("no active session")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownBackend = errors.New("unknown session backend")
)

// AppError represents a classified client error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewNetworkError reports that the server could not be reached. It is always retryable.
func NewNetworkError(cause error) *AppError {
	e := NewAppError(ErrorTypeNetwork, NetworkMessage, 0).WithCause(cause)
	e.Retryable = true
	return e
}

// NewUnauthorizedError reports a 401 from the server, or an authenticated
// call attempted without a session.
func NewUnauthorizedError(detail string) *AppError {
	if detail == "" {
		detail = SessionExpiredMsg
	}
	return NewAppError(ErrorTypeUnauthorized, detail, http.StatusUnauthorized)
}

// CodeNoDetail marks an error whose message is a generic fallback rather than
// the server's own detail.
const CodeNoDetail = "NO_DETAIL"

// NewRequestFailedError reports a non-2xx (or success:false) response.
// An empty detail falls back to a generic message.
func NewRequestFailedError(detail string, status int) *AppError {
	if detail == "" {
		return NewAppError(ErrorTypeRequestFailed, RequestFailedMessage, status).WithCode(CodeNoDetail)
	}
	return NewAppError(ErrorTypeRequestFailed, detail, status)
}

// NewValidationError creates a validation error; no request is sent when one is returned.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest).WithCause(ErrInvalidInput)
}

// NewConfigurationError creates a startup configuration error
func NewConfigurationError(message string) *AppError {
	return NewAppError(ErrorTypeConfiguration, message, 0)
}

// NewInternalError creates an internal client error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, 0)
}

// ValidationError represents a validation failure of a single field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
}

// NewValidationErrors creates a new validation errors instance
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}

// Add adds a validation error
func (ve *ValidationErrors) Add(field, message string, value interface{}) *ValidationErrors {
	ve.Errors = append(ve.Errors, ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
	return ve
}

// HasErrors returns true if there are validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError converts validation errors to an AppError whose message is the first failure.
func (ve *ValidationErrors) ToAppError() *AppError {
	if !ve.HasErrors() {
		return nil
	}

	appErr := NewValidationError(ve.Errors[0].Message)
	appErr.Details["validation_errors"] = ve.Errors
	return appErr
}

// Helper functions for common error scenarios

// WrapError wraps an error with context, leaving classified errors untouched
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

func typeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsNetwork checks if an error is a transport failure
func IsNetwork(err error) bool {
	return typeOf(err) == ErrorTypeNetwork
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return typeOf(err) == ErrorTypeUnauthorized || errors.Is(err, ErrNoSession)
}

// IsRequestFailed checks if an error is a server-reported failure
func IsRequestFailed(err error) bool {
	return typeOf(err) == ErrorTypeRequestFailed
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return typeOf(err) == ErrorTypeValidation
}

// IsRetryable reports whether the user should be offered a retry.
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Retryable
}

// UserMessage maps any error to the text of a user-visible banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeNetwork:
			return NetworkMessage
		case ErrorTypeInternal:
			return RequestFailedMessage
		default:
			return appErr.Message
		}
	}
	if errors.Is(err, ErrNoSession) {
		return SessionExpiredMsg
	}
	return RequestFailedMessage
}

// UserMessageOr is UserMessage, except that a server failure or a refused
// unauthenticated call without any detail of its own is reported with fallback.
func UserMessageOr(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == CodeNoDetail &&
		(appErr.Type == ErrorTypeRequestFailed || appErr.Type == ErrorTypeUnauthorized) {
		return fallback
	}
	return UserMessage(err)
}
