package generator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/generator"
	"google.golang.org/genai"
)

func TestWithRetry_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	text, err := withRetry(context.Background(), 2, time.Millisecond, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", genai.APIError{Code: http.StatusServiceUnavailable}
		}
		return "Hallo!", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if text != "Hallo!" || calls != 3 {
		t.Fatalf("unexpected result %q after %d calls", text, calls)
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), 5, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", genai.APIError{Code: http.StatusBadRequest}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestWithRetry_ReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), 1, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", generator.ErrEmptyResponse
	})
	if !errors.Is(err, generator.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestWithRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := withRetry(ctx, 3, time.Hour, func(context.Context) (string, error) {
		return "", context.DeadlineExceeded
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{context.Canceled, false},
		{context.DeadlineExceeded, true},
		{genai.APIError{Code: http.StatusTooManyRequests}, true},
		{genai.APIError{Code: http.StatusInternalServerError}, true},
		{genai.APIError{Code: http.StatusForbidden}, false},
	}
	for _, c := range cases {
		if got := isRetryable(c.err); got != c.want {
			t.Fatalf("isRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
