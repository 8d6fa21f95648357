// Package domain defines the core domain models for ast-keyaudit.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents an audit failure with a structured error code.
// Every failure kind the tool can hit is terminal; the code only tells them apart
// for callers and tests.
type DomainError struct {
	Code    string // Error code (e.g., "KA-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	// ErrConfiguration indicates missing or malformed startup configuration,
	// including a base URL that does not carry the platform suffix.
	ErrConfiguration = NewDomainError("KA-CONF-1001", "invalid configuration")

	// ErrAuthentication indicates the API key could not be exchanged for a bearer token.
	ErrAuthentication = NewDomainError("KA-AUTH-4010", "authentication failed")

	// ErrLookup indicates the admin API did not return what was asked for.
	// An empty client list and a malformed one both map here.
	ErrLookup = NewDomainError("KA-LOOK-4040", "admin lookup failed")

	// ErrNetwork indicates a transport-level failure talking to the identity provider.
	ErrNetwork = NewDomainError("KA-NET-5030", "identity provider unreachable")

	// ErrFormat indicates a session record that cannot be exported.
	ErrFormat = NewDomainError("KA-FMT-4220", "malformed session record")
)
