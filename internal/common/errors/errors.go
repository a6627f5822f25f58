// internal/common/errors/errors.go
// Package errors provides standardized error handling for the loan
// origination workflow.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeNotFound: no application exists for the requested id.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeForbidden: the acting role is not authorized for the
	// application's current status.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeInvalidTransition: the status/target pair is not in the
	// transition table for the acting role.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	// ErrCodeMissingData: a required payload field is absent or empty.
	ErrCodeMissingData ErrorCode = "MISSING_DATA"
	// ErrCodeRemoteRejected: the external loan service failed or returned a
	// non-success code; local state was not touched.
	ErrCodeRemoteRejected ErrorCode = "REMOTE_REJECTED"
	// ErrCodeApplicationBusy: another transition is already in flight for
	// the same application id.
	ErrCodeApplicationBusy ErrorCode = "APPLICATION_BUSY"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewNotFoundError creates a non-retryable lookup error.
func NewNotFoundError(appID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", appID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(role, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Role not authorized for current application status",
		Details:   fmt.Sprintf("role: %s, status: %s", role, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError creates a non-retryable state machine error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Transition not allowed from current status",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingDataError creates a non-retryable payload validation error.
func NewMissingDataError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingData,
		Message:   "Required transition data is missing or empty",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteRejectedError wraps an external loan service failure. The remote
// message is surfaced verbatim when available; the caller may retry the same
// transition unchanged.
func NewRemoteRejectedError(remoteMessage string) *StandardError {
	if remoteMessage == "" {
		remoteMessage = "The loan processing system rejected the request"
	}
	return &StandardError{
		Code:      ErrCodeRemoteRejected,
		Message:   remoteMessage,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationBusyError reports a transition already in flight.
func NewApplicationBusyError(appID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationBusy,
		Message:   "Another transition is in flight for this application",
		Details:   fmt.Sprintf("applicationId: %s", appID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err carries ErrCodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsForbidden reports whether err carries ErrCodeForbidden.
func IsForbidden(err error) bool { return CodeOf(err) == ErrCodeForbidden }

// IsInvalidTransition reports whether err carries ErrCodeInvalidTransition.
func IsInvalidTransition(err error) bool { return CodeOf(err) == ErrCodeInvalidTransition }

// IsMissingData reports whether err carries ErrCodeMissingData.
func IsMissingData(err error) bool { return CodeOf(err) == ErrCodeMissingData }

// IsRemoteRejected reports whether err carries ErrCodeRemoteRejected.
func IsRemoteRejected(err error) bool { return CodeOf(err) == ErrCodeRemoteRejected }

// IsApplicationBusy reports whether err carries ErrCodeApplicationBusy.
func IsApplicationBusy(err error) bool { return CodeOf(err) == ErrCodeApplicationBusy }

// IsRetryable reports whether the caller may retry the same call unchanged.
// Validation failures require the caller to correct role, state, or payload
// first and are never retryable.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
