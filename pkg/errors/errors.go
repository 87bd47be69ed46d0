// Package errors provides structured error types for depwatch.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A single mapping from error codes to HTTP status codes
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (client errors)
//   - *_NOT_FOUND: Resource not found
//   - *_UNAVAILABLE: Upstream provider or registry failures
//   - NOT_IMPLEMENTED, INTERNAL_*: Server-side failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRepositoryURL, "unsupported host %q", host)
//	if errors.Is(err, errors.ErrCodeInvalidRepositoryURL) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProviderUnavailable, origErr, "list %s", ref)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidRepositoryURL Code = "INVALID_REPOSITORY_URL"
	ErrCodeInvalidEmail         Code = "INVALID_EMAIL"
	ErrCodeInvalidPackage       Code = "INVALID_PACKAGE"

	// Resource not found errors
	ErrCodeSubscriptionNotFound Code = "SUBSCRIPTION_NOT_FOUND"
	ErrCodeRepositoryNotFound   Code = "REPOSITORY_NOT_FOUND"
	ErrCodeManifestNotFound     Code = "MANIFEST_NOT_FOUND"
	ErrCodePackageNotFound      Code = "PACKAGE_NOT_FOUND"
	ErrCodeRouteNotFound        Code = "ROUTE_NOT_FOUND"

	// Request errors
	ErrCodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"

	// Manifest content errors
	ErrCodeManifestParse Code = "MANIFEST_PARSE_ERROR"

	// Upstream errors
	ErrCodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	ErrCodeRegistryUnavailable Code = "REGISTRY_UNAVAILABLE"
	ErrCodeRateLimited         Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeNotImplemented Code = "NOT_IMPLEMENTED"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
)

// MsgNotImplemented is the fixed message carried by NOT_IMPLEMENTED errors.
// API clients match on it, so it must not change.
const MsgNotImplemented = "Method not implemented."

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotImplemented returns the NOT_IMPLEMENTED error with its fixed message.
func NotImplemented() *Error {
	return &Error{Code: ErrCodeNotImplemented, Message: MsgNotImplemented}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code the API responds with.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRepositoryURL, ErrCodeInvalidEmail,
		ErrCodeInvalidPackage, ErrCodeSubscriptionNotFound:
		return http.StatusBadRequest
	case ErrCodeRepositoryNotFound, ErrCodeRouteNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeProviderUnavailable, ErrCodeRegistryUnavailable:
		return http.StatusBadGateway
	case ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
