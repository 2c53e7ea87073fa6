package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeAccess    ErrorType = "access"
	ErrorTypeAPI       ErrorType = "api"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeIdentity  ErrorType = "identity"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// VK API error codes that get their own classification
const (
	CodeUnknown         = 1
	CodeAuthFailed      = 5
	CodeTooManyRequests = 6
	CodeFloodControl    = 9
	CodeAccessDenied    = 15
	CodeDeleted         = 18
	CodePrivateProfile  = 30
)

// Error represents a classified error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{Type: t, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err, keeping it reachable via errors.Is/As
func Wrap(t ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

// Config creates a configuration error. These abort the pipeline.
func Config(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, 0, format, args...)
}

// FromAPICode maps a VK API error_code to an ErrorType
func FromAPICode(code int) ErrorType {
	switch code {
	case CodeTooManyRequests, CodeFloodControl:
		return ErrorTypeRateLimit
	case CodeAuthFailed:
		return ErrorTypeAuth
	case CodeAccessDenied, CodeDeleted, CodePrivateProfile:
		return ErrorTypeAccess
	default:
		return ErrorTypeAPI
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsConfig reports whether err is a configuration error
func IsConfig(err error) bool {
	return TypeOf(err) == ErrorTypeConfig
}

// IsTransient reports whether err is a remote failure scoped to a single
// parent entity. Those truncate one listing and never abort a stage.
func IsTransient(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeAccess, ErrorTypeAPI, ErrorTypeParsing:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a server side
// problem rather than a bad request
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0, 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
