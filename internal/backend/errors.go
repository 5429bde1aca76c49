package backend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
)

// ErrorAction defines what the caller should do with a tier error.
type ErrorAction int

const (
	// ActionRetry indicates the call should be retried on the same tier.
	ActionRetry ErrorAction = iota
	// ActionFallback indicates the next tier should be tried.
	ActionFallback
	// ActionFail indicates a permanent error; retrying will not help.
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// TierError wraps an error with the tier name and HTTP status for
// retry/fallback decisions.
type TierError struct {
	Err        error
	StatusCode int
	Tier       string
}

// Error implements the error interface.
func (e *TierError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *TierError) Unwrap() error {
	return e.Err
}

// RateLimitError carries the upstream throttling message so it can be
// surfaced to the user verbatim instead of a generic failure.
type RateLimitError struct {
	Detail string
	Tier   string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "rate limit exceeded"
}

// Unwrap ties every rate limit error to the shared sentinel, so
// errors.Is(err, sberrors.ErrRateLimited) holds through any wrapping.
func (e *RateLimitError) Unwrap() error {
	return sberrors.ErrRateLimited
}

// ClassifyError determines the appropriate action for a tier error:
//   - Transient errors (429, 5xx, network, timeout) → Retry
//   - Quota exhaustion → Fallback to the next tier
//   - Permanent errors (400, 401, 403, 404, 422) → Fail
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}

	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}
	if errors.Is(err, sberrors.ErrNetworkFailure) {
		return ActionRetry
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		return ActionRetry
	}

	var te *TierError
	if errors.As(err, &te) && te.StatusCode > 0 {
		return classifyStatusCode(te.StatusCode)
	}

	errStr := strings.ToLower(err.Error())

	// Quota exhaustion is not transient; move on to the next tier.
	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing") {
		return ActionFallback
	}

	if containsAny(errStr, "rate limit", "too many requests", "resource_exhausted", "429") {
		return ActionRetry
	}

	if containsAny(errStr, "unavailable", "503", "502", "500", "504",
		"internal server error", "bad gateway", "gateway timeout",
		"overloaded", "capacity") {
		return ActionRetry
	}

	if containsAny(errStr, "408", "409", "timeout", "deadline", "connection", "refused", "reset") {
		return ActionRetry
	}

	if containsAny(errStr, "400", "invalid", "bad request", "malformed") {
		return ActionFail
	}
	if containsAny(errStr, "401", "unauthorized", "unauthenticated", "invalid api key") {
		return ActionFail
	}
	if containsAny(errStr, "403", "forbidden", "permission denied") {
		return ActionFail
	}
	if containsAny(errStr, "404", "not found") {
		return ActionFail
	}
	if containsAny(errStr, "422", "unprocessable") {
		return ActionFail
	}

	// Unknown errors get one more chance.
	return ActionRetry
}

func classifyStatusCode(statusCode int) ErrorAction {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ActionRetry
	case statusCode == http.StatusRequestTimeout:
		return ActionRetry
	case statusCode == http.StatusConflict:
		return ActionRetry
	case statusCode >= 500 && statusCode < 600:
		return ActionRetry
	case statusCode >= 400 && statusCode < 500:
		return ActionFail
	default:
		return ActionRetry
	}
}

// IsRetryable reports whether the error is transient.
func IsRetryable(err error) bool {
	return ClassifyError(err) == ActionRetry
}

// IsRateLimited reports whether the error carries an upstream
// throttling message.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
