package errors

import "errors"

// Constructors for the engine's own error taxonomy. These never carry
// retry information: a state-machine precondition failure is final.

// NewInvalidState creates an invalid-state error for an operation that is
// not allowed in the current session state.
func NewInvalidState(op, reason string) *TrackerError {
	return NewTrackerErrorWithContext(op, errors.New(reason), ErrCodeInvalidState, map[string]string{
		"reason": reason,
	})
}

// NewValidation creates a validation error for malformed input
func NewValidation(op, field, reason string) *TrackerError {
	return NewTrackerErrorWithContext(op, errors.New(reason), ErrCodeValidation, map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// NewPolicyViolation creates a policy-violation error for an operation the
// limit policy forbids.
func NewPolicyViolation(op, reason string) *TrackerError {
	return NewTrackerErrorWithContext(op, errors.New(reason), ErrCodePolicyViolation, map[string]string{
		"reason": reason,
	})
}
