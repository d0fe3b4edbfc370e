// Package engine drives chunked translation through a completion backend.
// This file contains error classification and handling.

package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RetryClass indicates how a backend error is expected to behave on retry.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"     // Transient, retry after backoff
	RetryClassMaybe        RetryClass = "maybe"         // May clear up (deadlines, context size)
	RetryClassNonRetryable RetryClass = "non_retryable" // Will fail the same way again (auth, quota)
)

// BackendError is a transport or service-side failure of a completion backend.
// The translator retries it with backoff up to the attempt limit.
type BackendError struct {
	Err         error
	Class       RetryClass
	HTTPStatus  int    // HTTP status code if applicable
	RetryAfter  string // Retry-After header value if present
	IsRateLimit bool
	IsTimeout   bool
	IsNetwork   bool
	IsAuth      bool
	IsQuota     bool
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend error: %v", e.Err)
	}
	return fmt.Sprintf("backend error: %s", e.Class)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// UnexpectedError is any failure of a completion attempt that is not a BackendError.
// It is never retried.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Unexpected wraps err as an UnexpectedError unless it already is a backend or unexpected error.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	var ue *UnexpectedError
	if errors.As(err, &be) || errors.As(err, &ue) {
		return err
	}
	return &UnexpectedError{Err: err}
}

// ShapeMismatchError reports a response whose record count differs from the chunk.
// It never leaves the translator: mismatches are retried, then repaired.
type ShapeMismatchError struct {
	Key      ChunkKey
	Expected int
	Got      int
	Attempt  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("attempt %d: received %d translated lines for chunk %d-%d, expected %d",
		e.Attempt, e.Got, e.Key.First, e.Key.Last, e.Expected)
}

// RetryExhaustedError indicates that all attempts for a chunk failed with backend errors.
type RetryExhaustedError struct {
	Err      error
	Attempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// IsRetryExhausted checks if an error is a RetryExhaustedError.
func IsRetryExhausted(err error) bool {
	var retryExhausted *RetryExhaustedError
	return errors.As(err, &retryExhausted)
}

// IsBackendError checks if an error is, or wraps, a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// ClassifyBackendError classifies an error from a completion backend by its message.
func ClassifyBackendError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var be *BackendError
	if errors.As(err, &be) && be.Class != "" {
		return be.Class
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case containsAny(errStr, "429", "rate limit", "too many requests"):
		return RetryClassRetryable
	case containsAny(errStr, "500", "502", "503", "504", "529",
		"internal server error", "bad gateway", "service unavailable", "gateway timeout", "overloaded"):
		return RetryClassRetryable
	case containsAny(errStr, "timeout", "connection reset", "connection refused",
		"no such host", "network", "dns", "temporary failure", "eof"):
		return RetryClassRetryable
	case containsAny(errStr, "context deadline exceeded", "deadline exceeded",
		"context length", "token limit", "maximum context length"):
		return RetryClassMaybe
	case containsAny(errStr, "401", "403", "unauthorized", "forbidden", "invalid api key",
		"authentication failed", "402", "quota", "billing", "payment required"):
		return RetryClassNonRetryable
	case containsAny(errStr, "400", "bad request", "invalid request", "malformed"):
		return RetryClassNonRetryable
	}

	return RetryClassNonRetryable
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// WrapBackendError wraps an SDK error with classification metadata.
func WrapBackendError(err error, httpStatus int, retryAfter string) error {
	if err == nil {
		return nil
	}

	return &BackendError{
		Err:         err,
		Class:       ClassifyBackendError(err),
		HTTPStatus:  httpStatus,
		RetryAfter:  retryAfter,
		IsRateLimit: httpStatus == http.StatusTooManyRequests,
		IsTimeout:   httpStatus == http.StatusGatewayTimeout || httpStatus == http.StatusRequestTimeout,
		IsNetwork:   httpStatus == 0 || httpStatus >= 500,
		IsAuth:      httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden,
		IsQuota:     httpStatus == http.StatusPaymentRequired,
	}
}

// ExtractErrorMetadata pulls an HTTP status code and a Retry-After value out of an SDK error message.
func ExtractErrorMetadata(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	errStr := err.Error()
	var httpStatus int

	for _, code := range []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusBadRequest,
		http.StatusPaymentRequired,
	} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			httpStatus = code
			break
		}
	}

	var retryAfter string
	lower := strings.ToLower(errStr)
	for _, marker := range []string{"retry-after", "retry after"} {
		if idx := strings.Index(lower, marker); idx != -1 {
			parts := strings.Fields(strings.TrimLeft(errStr[idx+len(marker):], ": "))
			if len(parts) > 0 {
				retryAfter = strings.TrimRight(parts[0], ".,;")
			}
			break
		}
	}

	return httpStatus, retryAfter
}
