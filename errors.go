package conceptcard

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationReason names why a concept was rejected.
type ValidationReason string

const (
	ReasonEmpty        ValidationReason = "empty"
	ReasonTooLong      ValidationReason = "too_long"
	ReasonInvalidChars ValidationReason = "invalid_chars"
)

// ValidationError indicates bad user input. It is raised before any provider
// is contacted.
type ValidationError struct {
	Reason    ValidationReason
	MaxLength int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "invalid concept: concept is required"
	case ReasonTooLong:
		return fmt.Sprintf("invalid concept: longer than %d characters", e.MaxLength)
	case ReasonInvalidChars:
		return "invalid concept: contains disallowed characters"
	default:
		return "invalid concept"
	}
}

// Message returns the localized explanation shown to the user.
func (e *ValidationError) Message(loc Locale) string {
	switch e.Reason {
	case ReasonEmpty:
		return localized(loc, "Please enter a concept.", "请输入一个概念。")
	case ReasonTooLong:
		return localized(loc,
			fmt.Sprintf("Concept is too long. Please keep it under %d characters.", e.MaxLength),
			fmt.Sprintf("概念太长，请保持在 %d 个字符以内。", e.MaxLength))
	case ReasonInvalidChars:
		return localized(loc,
			"The concept contains invalid characters. Please remove special characters and try again.",
			"概念包含无效字符。请移除特殊字符后重试。")
	default:
		return localized(loc, "Invalid input. Please try again.", "输入无效，请重试。")
	}
}

// ConfigError indicates missing or unusable provider configuration.
type ConfigError struct {
	Provider ProviderID
	Message  string
}

func (e *ConfigError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("configuration error (%s): %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// ErrNoProvider is returned when no provider has a usable API key.
var ErrNoProvider = &ConfigError{
	Message: "no AI provider configured; set an API key for gemini, openai, deepseek or glm45",
}

// ProviderError indicates a failed call to one AI provider.
type ProviderError struct {
	Provider ProviderID
	Message  string
	Status   int    // HTTP status from the provider, 0 if none
	Raw      string // Raw model output, kept for diagnostics on parse failures
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AllProvidersFailedError is returned when every candidate provider failed.
type AllProvidersFailedError struct {
	Attempts []Attempt
}

func (e *AllProvidersFailedError) Error() string {
	names := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		names = append(names, string(a.Provider))
	}
	msg := fmt.Sprintf("all %d AI providers failed (%s)", len(e.Attempts), strings.Join(names, ", "))
	if last := e.Last(); last != nil {
		msg += ": last error: " + last.Error()
	}
	return msg
}

// Last returns the error of the final attempt.
func (e *AllProvidersFailedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *AllProvidersFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// ShareLinkError indicates a share link could not be produced.
type ShareLinkError struct {
	Message string
	Cause   error
}

func (e *ShareLinkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("share link error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("share link error: %s", e.Message)
}

func (e *ShareLinkError) Unwrap() error {
	return e.Cause
}

// RenderError indicates a card could not be rendered for download.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("card render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("card render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// AnalysisError is the classified failure returned by Service.AnalyzeConcept.
type AnalysisError struct {
	Info ErrorInfo
	Err  error
}

func (e *AnalysisError) Error() string {
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ErrSuperseded is returned by Session.Submit when a newer request replaced
// the call before it finished.
var ErrSuperseded = errors.New("analysis request superseded")
