// Package errors provides typed errors for stride-action
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error (missing input, malformed mode)
	ErrConfig ErrorType = iota
	// ErrContext indicates ambient CI event data is missing expected fields
	ErrContext
	// ErrUnresolvedTrigger indicates the configured mode does not match the event
	ErrUnresolvedTrigger
	// ErrEmptyContent indicates the analysis input is empty after trimming
	ErrEmptyContent
	// ErrAuth indicates an invalid or revoked STRIDE API key
	ErrAuth
	// ErrRateLimit indicates the API usage or rate limit was reached
	ErrRateLimit
	// ErrValidation indicates the analysis payload was rejected
	ErrValidation
	// ErrTransient indicates a network or server error eligible for retry
	ErrTransient
	// ErrPublish indicates a comment creation/update failure
	ErrPublish
)

// ActionError is the base error type for all stride-action errors
type ActionError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *ActionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *ActionError) Unwrap() error {
	return e.Cause
}

// New creates a new ActionError
func New(errType ErrorType, message string, cause error) *ActionError {
	return &ActionError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *ActionError) WithContext(key string, value interface{}) *ActionError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var actErr *ActionError
	if err == nil {
		return false
	}
	if errors.As(err, &actErr) {
		return actErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and retryable.
// Only network/server errors qualify; auth, validation and rate-limit
// failures never do.
func IsRetryable(err error) bool {
	var actErr *ActionError
	if !errors.As(err, &actErr) {
		return false
	}
	return actErr.Type == ErrTransient
}

// IsFatal returns true if the error should fail the run with a non-zero
// exit code. An unresolved trigger is a legitimate configuration mismatch
// and a rate limit is surfaced to the user as a comment; neither fails
// the run.
func IsFatal(err error) bool {
	var actErr *ActionError
	if err == nil {
		return false
	}
	if !errors.As(err, &actErr) {
		return true
	}
	switch actErr.Type {
	case ErrUnresolvedTrigger, ErrRateLimit:
		return false
	default:
		return true
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrContext:
		return "CONTEXT"
	case ErrUnresolvedTrigger:
		return "UNRESOLVED_TRIGGER"
	case ErrEmptyContent:
		return "EMPTY_CONTENT"
	case ErrAuth:
		return "AUTH"
	case ErrRateLimit:
		return "RATE_LIMIT"
	case ErrValidation:
		return "VALIDATION"
	case ErrTransient:
		return "TRANSIENT"
	case ErrPublish:
		return "PUBLISH"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *ActionError {
	return New(ErrConfig, message, cause)
}

// ContextError creates an ambient-context error
func ContextError(message string, cause error) *ActionError {
	return New(ErrContext, message, cause)
}

// UnresolvedTriggerError creates an unresolved-trigger error naming the
// configured mode and the observed event
func UnresolvedTriggerError(mode, event string) *ActionError {
	return New(ErrUnresolvedTrigger,
		fmt.Sprintf("trigger mode %q does not apply to event %q", mode, event), nil).
		WithContext("mode", mode).
		WithContext("event", event)
}

// EmptyContentError creates an empty-content error
func EmptyContentError(message string) *ActionError {
	return New(ErrEmptyContent, message, nil)
}

// AuthError creates an authentication error
func AuthError(message string, cause error) *ActionError {
	return New(ErrAuth, message, cause)
}

// RateLimitError creates a rate/usage limit error
func RateLimitError(message string, cause error) *ActionError {
	return New(ErrRateLimit, message, cause)
}

// ValidationError creates a payload validation error
func ValidationError(message string, cause error) *ActionError {
	return New(ErrValidation, message, cause)
}

// TransientError creates a transient network/server error
func TransientError(message string, cause error) *ActionError {
	return New(ErrTransient, message, cause)
}

// PublishError creates a comment publishing error
func PublishError(message string, cause error) *ActionError {
	return New(ErrPublish, message, cause)
}
