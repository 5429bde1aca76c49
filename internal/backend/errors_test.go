package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorAction
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: ActionFail,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			expected: ActionFail,
		},
		{
			name:     "context deadline",
			err:      context.DeadlineExceeded,
			expected: ActionRetry,
		},
		{
			name:     "rate limit error type",
			err:      &RateLimitError{Detail: "slow down", Tier: "rag_service"},
			expected: ActionRetry,
		},
		{
			name:     "quota exhausted",
			err:      errors.New("quota exceeded for today"),
			expected: ActionFallback,
		},
		{
			name:     "billing problem",
			err:      errors.New("billing hard limit reached"),
			expected: ActionFallback,
		},
		{
			name:     "rate limit message",
			err:      errors.New("rate limit exceeded, too many requests"),
			expected: ActionRetry,
		},
		{
			name:     "service unavailable",
			err:      errors.New("503 service unavailable"),
			expected: ActionRetry,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			expected: ActionRetry,
		},
		{
			name:     "unauthorized",
			err:      errors.New("401 unauthorized"),
			expected: ActionFail,
		},
		{
			name:     "malformed response",
			err:      fmt.Errorf("decode: %w", sberrors.ErrMalformedResponse),
			expected: ActionFail,
		},
		{
			name:     "network failure sentinel",
			err:      fmt.Errorf("query upstream: %w: %w", sberrors.ErrNetworkFailure, errors.New("dial tcp: no route to host")),
			expected: ActionRetry,
		},
		{
			name:     "unknown error retries",
			err:      errors.New("something odd happened"),
			expected: ActionRetry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClassifyTierErrorByStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorAction
	}{
		{429, ActionRetry},
		{408, ActionRetry},
		{409, ActionRetry},
		{500, ActionRetry},
		{503, ActionRetry},
		{400, ActionFail},
		{401, ActionFail},
		{403, ActionFail},
		{404, ActionFail},
		{422, ActionFail},
	}
	for _, tt := range tests {
		err := &TierError{Err: errors.New("upstream error"), StatusCode: tt.status, Tier: "rag_service"}
		if got := ClassifyError(err); got != tt.expected {
			t.Errorf("status %d: ClassifyError = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestRateLimitErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("invoke tier: %w", &RateLimitError{Detail: "slow down", Tier: "rag_service"})
	if !errors.Is(err, sberrors.ErrRateLimited) {
		t.Error("RateLimitError should match ErrRateLimited through wrapping")
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should hold through wrapping")
	}
}

func TestClassifyWrappedTierError(t *testing.T) {
	inner := &TierError{Err: errors.New("boom"), StatusCode: 503, Tier: "rag_service"}
	wrapped := fmt.Errorf("invoke tier: %w", inner)
	if got := ClassifyError(wrapped); got != ActionRetry {
		t.Errorf("ClassifyError(wrapped 503) = %v, want retry", got)
	}
}

func TestRateLimitErrorDetail(t *testing.T) {
	err := &RateLimitError{Detail: "Rate limit exceeded. Try again in 30 seconds.", Tier: "rag_service"}
	if err.Error() != "Rate limit exceeded. Try again in 30 seconds." {
		t.Errorf("Error() = %q, want verbatim detail", err.Error())
	}
	if !IsRateLimited(fmt.Errorf("query: %w", err)) {
		t.Error("IsRateLimited should see through wrapping")
	}

	empty := &RateLimitError{}
	if empty.Error() != "rate limit exceeded" {
		t.Errorf("empty detail Error() = %q", empty.Error())
	}
}

func TestTierErrorMessage(t *testing.T) {
	err := &TierError{Err: errors.New("upstream error"), StatusCode: 502, Tier: "rag_service"}
	want := "upstream error (status: 502)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap should expose the underlying error")
	}
}

func TestErrorActionString(t *testing.T) {
	if ActionRetry.String() != "retry" || ActionFallback.String() != "fallback" || ActionFail.String() != "fail" {
		t.Error("unexpected action names")
	}
}
