package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the tool gateway

var (
	// ErrUnknownTool indicates a tool name was not found in the registry
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDuplicateTool indicates a tool name is already registered
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrInvalidArguments indicates tool arguments failed schema validation
	ErrInvalidArguments = errors.New("invalid tool arguments")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a remote service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrCancelled indicates an invocation was cancelled by the caller
	ErrCancelled = errors.New("invocation cancelled")
)

// Remote-invocation errors

var (
	// ErrRemoteClient indicates a non-retryable 4xx response from a remote tool
	ErrRemoteClient = errors.New("remote endpoint rejected request")

	// ErrRemoteServer indicates a 5xx response from a remote tool
	ErrRemoteServer = errors.New("remote endpoint error")

	// ErrCredential indicates bearer token acquisition failed
	ErrCredential = errors.New("credential acquisition failed")

	// ErrWorkflowFailed indicates a triggered workflow ended in a failed state
	ErrWorkflowFailed = errors.New("workflow failed")

	// ErrWorkflowTimeout indicates a workflow did not complete within the wait budget
	ErrWorkflowTimeout = errors.New("workflow wait timed out")

	// ErrRateLimitExceeded indicates the outbound rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// ConfigKind classifies configuration failures.
type ConfigKind string

const (
	ConfigMissingField           ConfigKind = "missing_field"
	ConfigInvalidURL             ConfigKind = "invalid_url"
	ConfigInvalidAuthCombination ConfigKind = "invalid_auth_combination"
	ConfigInvalidValue           ConfigKind = "invalid_value"
)

// ConfigError reports an invalid tool or service configuration.
// Raised at construction time, before any network activity.
type ConfigError struct {
	Kind    ConfigKind
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): field '%s': %s", e.Kind, e.Field, e.Message)
}

// NewConfigError creates a new configuration error
func NewConfigError(kind ConfigKind, field, message string) *ConfigError {
	return &ConfigError{Kind: kind, Field: field, Message: message}
}

// ValidationError represents an argument validation error with field details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets callers match validation failures with errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArguments
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
