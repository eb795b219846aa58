// Package errors provides error handling utilities.
package errors

import (
	"errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeUnknownDimension indicates a selection names a dimension the
	// dataset does not have
	TypeUnknownDimension Type = "UNKNOWN_DIMENSION"

	// TypeUnknownCode indicates a selection contains a code outside the
	// dimension's valid code list
	TypeUnknownCode Type = "UNKNOWN_CODE"

	// TypeTransport indicates a per-request network or HTTP failure
	TypeTransport Type = "TRANSPORT_ERROR"

	// TypeQuotaExceeded indicates the remote service rejected a request
	// for asking too many categories
	TypeQuotaExceeded Type = "QUOTA_EXCEEDED"

	// TypePartialFailure indicates some sub-requests failed while others
	// succeeded
	TypePartialFailure Type = "PARTIAL_FAILURE"

	// TypeInconsistentPartition indicates two sub-requests returned the
	// same coordinate
	TypeInconsistentPartition Type = "INCONSISTENT_PARTITION"

	// TypePartitioningDefect indicates the transport reported a quota
	// rejection for a selection the partitioner considered compliant
	TypePartitioningDefect Type = "PARTITIONING_DEFECT"

	// TypeParsing indicates a payload or metadata parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a dataset or dimension not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error (or any error it wraps) is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// UnknownDimension creates an unknown dimension error
func UnknownDimension(dataset, dimension string) *Error {
	return Newf(TypeUnknownDimension, "dataset %s has no dimension %q", dataset, dimension)
}

// UnknownCode creates an unknown code error
func UnknownCode(dimension, code string) *Error {
	return Newf(TypeUnknownCode, "dimension %s has no code %q", dimension, code)
}

// Transport creates a transport error
func Transport(message string, cause error) *Error {
	return Wrap(TypeTransport, message, cause)
}

// QuotaExceeded creates a quota rejection error
func QuotaExceeded(message string) *Error {
	return New(TypeQuotaExceeded, message)
}

// InconsistentPartition creates an overlapping-coordinate error
func InconsistentPartition(coordinate string) *Error {
	return Newf(TypeInconsistentPartition, "coordinate %s returned by more than one sub-request", coordinate)
}

// PartitioningDefect creates a defect error for a quota rejection that
// should have been impossible
func PartitioningDefect(cause error) *Error {
	return Wrap(TypePartitioningDefect, "remote rejected a sub-request the partitioner sized within quota", cause)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
