package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Report validation
	ErrAssigneeRequired = errors.New("assignee is required")
	ErrAssigneeNotFound = errors.New("assignee not found in current snapshot")
	ErrNoTickets        = errors.New("no tickets found for the current reporting period")

	// Tracker interaction
	ErrTrackerUnavailable = errors.New("ticket tracker request failed")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewTrackerError(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrTrackerUnavailable, err),
		Message:    "The ticket tracker could not be reached",
		Code:       "TRACKER_UNAVAILABLE",
		StatusCode: 502,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}
