package engine

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestClassifyBackendError(t *testing.T) {
	tests := []struct {
		err  error
		want RetryClass
	}{
		{errors.New("status code 429: rate limit reached"), RetryClassRetryable},
		{errors.New("error, status code: 503, message: overloaded"), RetryClassRetryable},
		{errors.New("dial tcp: connection refused"), RetryClassRetryable},
		{errors.New("context deadline exceeded"), RetryClassMaybe},
		{errors.New("status code: 401, invalid api key"), RetryClassNonRetryable},
		{errors.New("something odd"), RetryClassNonRetryable},
		{&BackendError{Err: errors.New("x"), Class: RetryClassMaybe}, RetryClassMaybe},
		{nil, RetryClassNonRetryable},
	}
	for _, tt := range tests {
		if got := ClassifyBackendError(tt.err); got != tt.want {
			t.Errorf("ClassifyBackendError(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestWrapBackendError(t *testing.T) {
	base := errors.New("error, status code: 429, message: Rate limit. Retry-After: 7")
	status, retryAfter := ExtractErrorMetadata(base)
	if status != http.StatusTooManyRequests || retryAfter != "7" {
		t.Fatalf("ExtractErrorMetadata() = %d, %q", status, retryAfter)
	}

	err := WrapBackendError(base, status, retryAfter)
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("WrapBackendError() = %T", err)
	}
	if !be.IsRateLimit || be.IsAuth || be.Class != RetryClassRetryable {
		t.Errorf("BackendError = %+v", be)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error does not unwrap to the SDK error")
	}
	if ExtractRetryAfter(err) != 7*time.Second {
		t.Errorf("ExtractRetryAfter() = %v, want 7s", ExtractRetryAfter(err))
	}
	if WrapBackendError(nil, 0, "") != nil {
		t.Error("WrapBackendError(nil) != nil")
	}
}

func TestUnexpectedKeepsTypedErrors(t *testing.T) {
	be := &BackendError{Err: errors.New("x")}
	if Unexpected(be) != error(be) {
		t.Error("Unexpected re-wrapped a BackendError")
	}
	wrapped := fmt.Errorf("outer: %w", errors.New("inner"))
	var ue *UnexpectedError
	if !errors.As(Unexpected(wrapped), &ue) {
		t.Error("Unexpected did not wrap a plain error")
	}
	if Unexpected(nil) != nil {
		t.Error("Unexpected(nil) != nil")
	}
}

func TestCalculateDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}
	plain := errors.New("503")
	tests := []struct {
		attempt int
		err     error
		want    time.Duration
	}{
		{1, plain, time.Second},
		{2, plain, 2 * time.Second},
		{3, plain, 4 * time.Second},
		{4, plain, 5 * time.Second},
		{1, &BackendError{Err: plain, RetryAfter: "3"}, 3 * time.Second},
		{1, &BackendError{Err: plain, RetryAfter: "30"}, 5 * time.Second},
		{3, &BackendError{Err: plain, RetryAfter: "1"}, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := calculateDelay(policy, tt.attempt, tt.err); got != tt.want {
			t.Errorf("calculateDelay(attempt=%d, %v) = %v, want %v", tt.attempt, tt.err, got, tt.want)
		}
	}
}
