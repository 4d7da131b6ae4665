package errs

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when the operator declines a confirmation.
var ErrAborted = errors.New("aborted by user")

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

// ValidationError is a configuration problem detected before any external call.
type ValidationError struct {
	ErrorMessage
	Field string
}

// AuthenticationError means there is no usable session with an external service.
type AuthenticationError struct {
	ErrorMessage
	Service string
	Hint    string
}

type ToolMissingError struct {
	ErrorMessage
	Tool string
}

// ConcurrentRunError is returned when another run holds the deployment.
type ConcurrentRunError struct {
	ErrorMessage
}

// ProtectedError refuses an operation on a protected stack.
type ProtectedError struct {
	ErrorMessage
	Stack string
}

// ProvisioningError is a fatal failure of one environment's identity stack.
type ProvisioningError struct {
	ErrorMessage
	Environment string
	Stack       string
	Err         error
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Field:        field,
	}
}

func NewAuthenticationError(service, hint string, cause error) *AuthenticationError {
	msg := fmt.Sprintf("not authenticated with %s", service)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &AuthenticationError{
		ErrorMessage: ErrorMessage{Message: msg},
		Service:      service,
		Hint:         hint,
	}
}

func NewToolMissingError(tool string) *ToolMissingError {
	return &ToolMissingError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s not found in PATH", tool)},
		Tool:         tool,
	}
}

func NewConcurrentRunError(message string) *ConcurrentRunError {
	return &ConcurrentRunError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewProvisioningError(env, stack string, err error) *ProvisioningError {
	return &ProvisioningError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("environment %s: stack %s failed: %v", env, stack, err)},
		Environment:  env,
		Stack:        stack,
		Err:          err,
	}
}

func NewProtectedError(stack string) *ProtectedError {
	return &ProtectedError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("stack %s is protected", stack)},
		Stack:        stack,
	}
}
