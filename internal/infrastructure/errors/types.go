package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode classifies tracker errors. The first block covers the engine's
// own taxonomy; the second covers failures surfaced by the persistence
// gateway.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota

	// Engine taxonomy
	ErrCodeInvalidState    // operation attempted in a state that forbids it
	ErrCodeValidation      // malformed input
	ErrCodePolicyViolation // operation forbidden by the limit policy
	ErrCodeNotFound

	// Persistence gateway codes
	ErrCodeDuplicate
	ErrCodeConstraint
	ErrCodeConnection
	ErrCodeTransaction
	ErrCodeTimeout
	ErrCodePermission
	ErrCodeCorruption
	ErrCodeInternal
	ErrCodeBusy
	ErrCodeSchema
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeInvalidState:
		return "INVALID_STATE"
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodePolicyViolation:
		return "POLICY_VIOLATION"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeDuplicate:
		return "DUPLICATE"
	case ErrCodeConstraint:
		return "CONSTRAINT"
	case ErrCodeConnection:
		return "CONNECTION"
	case ErrCodeTransaction:
		return "TRANSACTION"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeCorruption:
		return "CORRUPTION"
	case ErrCodeInternal:
		return "INTERNAL"
	case ErrCodeBusy:
		return "BUSY"
	case ErrCodeSchema:
		return "SCHEMA"
	default:
		return "UNKNOWN"
	}
}

// TrackerError is the single typed error channel of the engine. It carries
// the failing operation, a classification code, retry information for
// storage failures, and optional context for logging.
type TrackerError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Retryable bool              // whether the error is retryable
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *TrackerError) Error() string {
	if e == nil {
		return "tracker error"
	}

	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}
	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	// Context keys in deterministic order
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	suffix := ""
	if len(parts) > 0 {
		suffix = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + suffix
	}
	return "tracker error" + suffix
}

func (e *TrackerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches two tracker errors by code, so errors.Is can compare against
// a bare &TrackerError{Code: ...} sentinel.
func (e *TrackerError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*TrackerError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *TrackerError) IsRetryable() bool {
	return e != nil && e.Retryable
}

// GetCode returns the error code as a string (logging interface compatibility)
func (e *TrackerError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (logging interface compatibility)
func (e *TrackerError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return map[string]string{}
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (logging interface compatibility)
func (e *TrackerError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information by mutating the receiver. Not safe
// once the error has been published to other goroutines; use
// NewTrackerErrorWithContext for concurrent construction instead.
func (e *TrackerError) WithContext(key, value string) *TrackerError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewTrackerError creates a new tracker error with the given parameters
func NewTrackerError(op string, err error, code ErrorCode) *TrackerError {
	return &TrackerError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableCode(code, err),
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewTrackerErrorWithContext creates a new tracker error with additional context
func NewTrackerErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *TrackerError {
	te := NewTrackerError(op, err, code)
	if context != nil {
		// Clone to avoid external mutation and data races
		te.Context = make(map[string]string, len(context))
		for k, v := range context {
			te.Context[k] = v
		}
	}
	return te
}

// isRetryableCode determines if an error is retryable based on its code.
// Only transient storage conditions qualify; the engine's own taxonomy
// (invalid state, validation, policy) never does.
func isRetryableCode(code ErrorCode, err error) bool {
	switch code {
	case ErrCodeConnection, ErrCodeTimeout, ErrCodeTransaction, ErrCodeBusy:
		return true
	case ErrCodeInvalidState, ErrCodeValidation, ErrCodePolicyViolation,
		ErrCodeNotFound, ErrCodeDuplicate, ErrCodeConstraint,
		ErrCodePermission, ErrCodeCorruption, ErrCodeInternal, ErrCodeSchema:
		return false
	default:
		if err != nil {
			msg := strings.ToLower(err.Error())
			return strings.Contains(msg, "temporary") ||
				strings.Contains(msg, "retry") ||
				strings.Contains(msg, "busy") ||
				strings.Contains(msg, "locked") ||
				strings.Contains(msg, "deadlock")
		}
		return false
	}
}

// codeOf extracts the classification code from any error chain
func codeOf(err error) (ErrorCode, bool) {
	var te *TrackerError
	if errors.As(err, &te) {
		return te.Code, true
	}
	return ErrCodeUnknown, false
}

// IsInvalidState checks if the error is an invalid-state error
func IsInvalidState(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeInvalidState
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

// IsPolicyViolation checks if the error is a policy violation
func IsPolicyViolation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodePolicyViolation
}

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeNotFound
}

// IsPersistence checks if the error carries one of the storage-side codes,
// i.e. it wraps a failure of the persistence gateway.
func IsPersistence(err error) bool {
	code, ok := codeOf(err)
	if !ok {
		return false
	}
	switch code {
	case ErrCodeDuplicate, ErrCodeConstraint, ErrCodeConnection,
		ErrCodeTransaction, ErrCodeTimeout, ErrCodePermission,
		ErrCodeCorruption, ErrCodeInternal, ErrCodeBusy, ErrCodeSchema:
		return true
	}
	return false
}

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	var te *TrackerError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}

// IsConnection checks if the error is a "connection" error
func IsConnection(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeConnection
}

// IsBusy checks if the error is a busy/locked error
func IsBusy(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeBusy
}

// IsTimeout checks if the error is a "timeout" error
func IsTimeout(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeTimeout
}

// IsTransaction checks if the error is a "transaction" error
func IsTransaction(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeTransaction
}

// IsConstraint checks if the error is a constraint violation
func IsConstraint(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeConstraint
}

// IsCorruption checks if the error is a corruption error
func IsCorruption(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeCorruption
}
