// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types used throughout the application
var (
	// Configuration errors
	ErrConfigInvalid = errors.New("invalid configuration")

	// API errors
	ErrAPIKeyMissing = errors.New("API key not found")
	ErrAPIKeyInvalid = errors.New("API key is invalid")
	ErrCanceled      = errors.New("request canceled")
	ErrNetwork       = errors.New("network request failed")

	// Source control errors
	ErrHostUnavailable   = errors.New("source control unavailable")
	ErrGitNotFound       = errors.New("git executable not found")
	ErrGitNotInitialized = errors.New("no git repositories found")
	ErrGitNoChanges      = errors.New("no changes found")

	// Generation errors
	ErrGenerationActive = errors.New("a commit message is already being generated")

	// Credential errors
	ErrEncryptionFailed = errors.New("failed to encrypt data")
	ErrCredentialAccess = errors.New("failed to access credentials")
)

// AppError represents an application-specific error with context
type AppError struct {
	Err       error
	Message   string
	Operation string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// APIError is a non-success HTTP response from the chat endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Z.AI API %d: %s", e.StatusCode, e.Body)
}

// Is reports 401 responses as ErrAPIKeyInvalid.
func (e *APIError) Is(target error) bool {
	return target == ErrAPIKeyInvalid && e.StatusCode == http.StatusUnauthorized
}

// ParseError is a success response that carried no usable content.
// Snapshot holds the leading part of the raw response for diagnostics.
type ParseError struct {
	Snapshot string
}

func (e *ParseError) Error() string {
	return "Unexpected Z.AI response: " + e.Snapshot
}

// HostError wraps a source control lookup failure with ErrHostUnavailable.
func HostError(reason error) error {
	return &AppError{
		Err:       errors.Join(ErrHostUnavailable, reason),
		Message:   reason.Error(),
		Operation: "scm",
	}
}
