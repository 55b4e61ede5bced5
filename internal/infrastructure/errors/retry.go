package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// RetryConfig holds configuration for gateway retry logic. Retrying is a
// persistence-gateway concern only; the state machine never retries.
type RetryConfig struct {
	MaxAttempts     int           // maximum number of attempts
	InitialDelay    time.Duration // initial delay between attempts
	MaxDelay        time.Duration // maximum delay between attempts
	BackoffFactor   float64       // exponential backoff factor
	Jitter          bool          // whether to add jitter to delays
	RetryableErrors []ErrorCode   // specific error codes to retry
}

// DefaultRetryConfig returns a retry configuration with sensible defaults
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeTimeout,
			ErrCodeTransaction,
			ErrCodeBusy,
		},
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation with retry logic, respecting context
// cancellation between attempts.
func WithRetry(ctx context.Context, config *RetryConfig, operation RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err, config) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("operation cancelled during retry: %w", ctx.Err())
		case <-time.After(calculateDelay(attempt, config)):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// shouldRetry determines if an error should be retried based on configuration
func shouldRetry(err error, config *RetryConfig) bool {
	var te *TrackerError
	if !errors.As(err, &te) {
		return false // only classified errors are retried
	}
	if !te.IsRetryable() {
		return false
	}
	return slices.Contains(config.RetryableErrors, te.Code)
}

// calculateDelay calculates the backoff delay for the next attempt
func calculateDelay(attempt int, config *RetryConfig) time.Duration {
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= config.BackoffFactor
	}

	delay := time.Duration(float64(config.InitialDelay) * multiplier)

	// Up to 25% jitter, applied before the max-delay cap
	if config.Jitter && delay > 0 {
		jitterAmount := time.Duration(float64(delay) * 0.25)
		if jitterAmount > 0 {
			delay += time.Duration(time.Now().UnixNano() % int64(jitterAmount))
		}
	}

	return min(delay, config.MaxDelay)
}
