package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// retryState enumerates the phases of one retried request. Modeling the loop
// as explicit states keeps cancellation and testing straightforward.
type retryState int

const (
	stateAttempt retryState = iota
	stateBackoff
	stateGiveUp
)

// RetryPolicy retries transient upstream failures with exponential backoff.
// An attempt is retried only when its error is marked retryable (HTTP 429,
// 5xx, or a network failure); anything else aborts immediately.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // backoff is BaseDelay * 2^attempt
}

// DefaultRetryPolicy matches the shared upstream contract: up to 3 retries
// (4 attempts) starting at a 1s delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
}

// RetryableError wraps an error that the policy should retry.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryableStatus reports whether an HTTP status indicates a transient
// upstream failure.
func IsRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Do runs fn under the policy. fn is expected to return nil on success, a
// *RetryableError for transient failures and any other error to stop
// immediately. Backoff honors ctx cancellation.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	var lastErr error

	state := stateAttempt
	for {
		switch state {
		case stateAttempt:
			err := fn(ctx)
			if err == nil {
				return nil
			}
			lastErr = err
			var rerr *RetryableError
			if !errors.As(err, &rerr) || attempt >= p.MaxRetries {
				state = stateGiveUp
				continue
			}
			state = stateBackoff

		case stateBackoff:
			delay := p.BaseDelay << attempt
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			attempt++
			state = stateAttempt

		case stateGiveUp:
			return fmt.Errorf("after %d attempt(s): %w", attempt+1, lastErr)
		}
	}
}
