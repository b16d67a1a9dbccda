package conceptcard

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Reason: ReasonTooLong, MaxLength: 100}

	if !strings.Contains(err.Error(), "100") {
		t.Errorf("error should mention the limit: %q", err.Error())
	}
	if got := err.Message(LocaleChinese); got != "概念太长，请保持在 100 个字符以内。" {
		t.Errorf("unexpected zh message: %q", got)
	}
	if got := (&ValidationError{Reason: ReasonEmpty}).Message(LocaleEnglish); got != "Please enter a concept." {
		t.Errorf("unexpected en message: %q", got)
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Provider: ProviderOpenAI, Message: "OpenAI API key is not configured"}
	want := "configuration error (openai): OpenAI API key is not configured"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !strings.HasPrefix(ErrNoProvider.Error(), "configuration error: ") {
		t.Errorf("unexpected message: %q", ErrNoProvider.Error())
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &ProviderError{Provider: ProviderGemini, Message: "network error", Cause: cause}

	if err.Error() != "provider error (gemini): network error: connection reset" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ProviderError should unwrap to its cause")
	}
}

func TestAllProvidersFailedError(t *testing.T) {
	first := errors.New("quota exceeded")
	last := &ProviderError{Provider: ProviderOpenAI, Message: "request timeout"}
	err := &AllProvidersFailedError{Attempts: []Attempt{
		{Provider: ProviderGemini, Err: first},
		{Provider: ProviderOpenAI, Err: last},
	}}

	msg := err.Error()
	if !strings.HasPrefix(msg, "all 2 AI providers failed (gemini, openai)") {
		t.Errorf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "request timeout") {
		t.Errorf("message should include the last error: %q", msg)
	}
	if !errors.Is(err, first) {
		t.Error("every attempt error should be reachable")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) || perr != last {
		t.Error("errors.As should find the provider error")
	}
	if (&AllProvidersFailedError{}).Last() != nil {
		t.Error("Last of no attempts should be nil")
	}
}

func TestShareLinkError(t *testing.T) {
	cause := errors.New("boom")
	err := &ShareLinkError{Message: "failed to compress state", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("ShareLinkError should unwrap to its cause")
	}
	if (&ShareLinkError{Message: "x"}).Error() != "share link error: x" {
		t.Error("unexpected message without cause")
	}
}

func TestAnalysisError(t *testing.T) {
	inner := &ValidationError{Reason: ReasonInvalidChars}
	err := &AnalysisError{Info: Classify(inner, ""), Err: inner}

	if err.Error() != inner.Error() {
		t.Errorf("AnalysisError should report the inner message, got %q", err.Error())
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Error("AnalysisError should unwrap to the validation error")
	}
}
