package conceptcard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &ProviderError{Provider: ProviderOpenAI, Message: "network error"}
		}
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error after retries, got: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "", &ProviderError{Provider: ProviderOpenAI, Message: "quota exceeded"}
	})

	if err == nil {
		t.Fatal("Expected error for non-retryable error")
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", callCount)
	}
}

func TestWithRetry_MaxRetriesExceeded(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetry(), func() (string, error) {
		callCount++
		return "", errors.New("request timeout")
	})

	if err == nil {
		t.Fatal("Expected error after max retries")
	}
	if callCount != 4 {
		t.Errorf("Expected 4 calls (1 initial + 3 retries), got %d", callCount)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	callCount := 0
	_, err := WithRetry(ctx, fastRetry(), func() (string, error) {
		callCount++
		return "", nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if callCount != 0 {
		t.Errorf("Expected 0 calls, got %d", callCount)
	}
}

func TestWithRetry_OnRetry(t *testing.T) {
	cfg := fastRetry()
	var delays []time.Duration
	cfg.OnRetry = func(retry int, delay time.Duration, err error) {
		if retry != len(delays)+1 {
			t.Errorf("unexpected retry number %d", retry)
		}
		delays = append(delays, delay)
	}

	WithRetry(context.Background(), cfg, func() (int, error) {
		return 0, errors.New("network error")
	})

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d retries, got %v", len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i+1, delays[i], want[i])
		}
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := DefaultRetryConfig()
	tests := map[int]time.Duration{
		0:  time.Second,
		1:  time.Second,
		2:  2 * time.Second,
		4:  8 * time.Second,
		5:  10 * time.Second,
		80: 10 * time.Second,
	}
	for n, want := range tests {
		if got := cfg.Backoff(n); got != want {
			t.Errorf("Backoff(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"superseded", ErrSuperseded, false},
		{"config", ErrNoProvider, false},
		{"validation", &ValidationError{Reason: ReasonEmpty}, false},
		{"timeout", errors.New("request timeout"), true},
		{"quota", errors.New("quota exceeded"), false},
		{"analysis retryable", &AnalysisError{Info: ErrorInfo{Retryable: true}, Err: errors.New("x")}, true},
		{"analysis final", &AnalysisError{Info: ErrorInfo{Retryable: false}, Err: errors.New("network")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
