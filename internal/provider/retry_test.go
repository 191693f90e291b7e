package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetryPolicySucceedsAfterTransientFailures(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("throttled"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPolicyStopsOnPermanentError(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}
	permanent := errors.New("bad request")

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do() error = %v, want wrapped %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on a permanent error)", calls)
	}
}

func TestRetryPolicyExhaustsBudget(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}
	transient := errors.New("upstream 503")

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Retryable(transient)
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (initial attempt plus 3 retries)", calls)
	}
	if !errors.Is(err, transient) {
		t.Fatalf("Do() error = %v, want wrapped %v", err, transient)
	}
	if got, want := err.Error(), "after 4 attempt(s): upstream 503"; got != want {
		t.Errorf("Do() error = %q, want %q", got, want)
	}
}

func TestRetryPolicyHonorsContextDuringBackoff(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(ctx context.Context) error {
			calls++
			return Retryable(errors.New("throttled"))
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tc := range cases {
		if got := IsRetryableStatus(tc.code); got != tc.want {
			t.Errorf("IsRetryableStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
