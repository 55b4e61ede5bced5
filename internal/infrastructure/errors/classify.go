package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ClassifyError classifies storage errors into tracker error codes
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	// Driver-specific type assertions first for accurate classification
	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	// String-based fallback for non-driver-specific errors
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(msg, "constraint"):
		return ErrCodeConstraint
	case strings.Contains(msg, "database is locked"):
		return ErrCodeBusy
	case strings.Contains(msg, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return ErrCodeSchema
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "access denied"):
		return ErrCodePermission
	case strings.Contains(msg, "connection refused"):
		return ErrCodeConnection
	case strings.Contains(msg, "timeout"):
		return ErrCodeTimeout
	case strings.Contains(msg, "deadlock"), strings.Contains(msg, "serialization failure"):
		return ErrCodeTransaction
	default:
		return ErrCodeUnknown
	}
}

// WrapStorageError wraps a persistence gateway failure with classification
func WrapStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewTrackerError(op, err, ClassifyError(err))
}

// WrapStorageErrorWithContext wraps a persistence gateway failure with
// classification and additional context.
func WrapStorageErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewTrackerErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleNotFound creates a standardized not-found error
func HandleNotFound(op, resource, identifier string) error {
	return NewTrackerErrorWithContext(op, sql.ErrNoRows, ErrCodeNotFound, map[string]string{
		"resource":   resource,
		"identifier": identifier,
	})
}

// HandleConnectionError creates a standardized connection error
func HandleConnectionError(op, details string) error {
	return NewTrackerErrorWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}

// HandleTransactionError creates a standardized transaction error
func HandleTransactionError(op, phase, details string) error {
	return NewTrackerErrorWithContext(op, errors.New("transaction error"), ErrCodeTransaction, map[string]string{
		"phase":   phase,
		"details": details,
	})
}
