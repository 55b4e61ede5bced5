package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection,
			ErrCodeBusy,
		},
	}
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return NewTrackerError("op", errors.New("locked"), ErrCodeBusy)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("WithRetry() unexpected error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return NewValidation("op", "minutes", "out of range")
	})

	if !IsValidation(err) {
		t.Errorf("WithRetry() error = %v, want validation error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for non-retryable error", attempts)
	}
}

func TestWithRetry_UnclassifiedErrorNotRetried(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return errors.New("plain failure")
	})

	if err == nil || attempts != 1 {
		t.Errorf("plain errors must not be retried, attempts = %d err = %v", attempts, err)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return NewTrackerError("op", errors.New("down"), ErrCodeConnection)
	})

	if err == nil {
		t.Fatal("WithRetry() should fail after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !IsConnection(err) {
		t.Errorf("final error should keep its classification, got %v", err)
	}
}

func TestWithRetry_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithRetry(ctx, &RetryConfig{
		MaxAttempts:     5,
		InitialDelay:    50 * time.Millisecond,
		MaxDelay:        time.Second,
		BackoffFactor:   2.0,
		RetryableErrors: []ErrorCode{ErrCodeBusy},
	}, func() error {
		attempts++
		cancel()
		return NewTrackerError("op", errors.New("locked"), ErrCodeBusy)
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("WithRetry() error = %v, want context.Canceled in chain", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 after cancellation", attempts)
	}
}

func TestCalculateDelay_CappedAtMaxDelay(t *testing.T) {
	config := &RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 10.0,
	}

	if d := calculateDelay(3, config); d > config.MaxDelay {
		t.Errorf("calculateDelay() = %v, exceeds max %v", d, config.MaxDelay)
	}
}
