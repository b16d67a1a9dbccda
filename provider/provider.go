// Package provider implements the AI backends that produce concept analyses.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ZaguanLabs/conceptcard"
)

const (
	temperature     = 0.7
	maxOutputTokens = 4000
	defaultTimeout  = 60 * time.Second
)

// Option configures an adapter.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

func defaultOptions() options {
	return options{httpClient: &http.Client{Timeout: defaultTimeout}}
}

// WithHTTPClient sets the HTTP client used for provider requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var codeFence = regexp.MustCompile("(?s)^```(?:json|JSON)?[ \t]*\n(.*)\n```\\s*$")

// stripCodeFences removes one markdown code block wrapped around the whole
// text. Fences inside the payload are left alone.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// decodeAnalysis parses model text into a normalized Analysis. The text is
// tried as-is first; an outer code fence is stripped only when that fails.
func decodeAnalysis(id conceptcard.ProviderID, text string) (conceptcard.Analysis, error) {
	payload := strings.TrimSpace(text)
	if payload == "" {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{
			Provider: id,
			Message:  fmt.Sprintf("invalid response from %s: no content", id.DisplayName()),
		}
	}

	analysis, err := conceptcard.NormalizeJSON([]byte(payload))
	if err != nil && strings.HasPrefix(payload, "```") {
		analysis, err = conceptcard.NormalizeJSON([]byte(stripCodeFences(payload)))
	}
	if err != nil {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{
			Provider: id,
			Message:  fmt.Sprintf("invalid JSON response from %s", id.DisplayName()),
			Raw:      text,
			Cause:    err,
		}
	}
	return analysis, nil
}

// missingKey is the error returned when an adapter has no credential.
func missingKey(id conceptcard.ProviderID) error {
	return &conceptcard.ConfigError{
		Provider: id,
		Message:  fmt.Sprintf("%s API key is not configured", id.DisplayName()),
	}
}

// statusError formats an HTTP failure so the classifier can read it.
func statusError(id conceptcard.ProviderID, status int, msg string) error {
	if msg == "" {
		msg = "Unknown API error"
	}
	return &conceptcard.ProviderError{
		Provider: id,
		Message:  fmt.Sprintf("%s API error: %d %s: %s", id.DisplayName(), status, http.StatusText(status), msg),
		Status:   status,
	}
}

// transportError rewrites a failed round trip into timeout, abort or
// network terms.
func transportError(id conceptcard.ProviderID, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &conceptcard.ProviderError{Provider: id, Message: "request timeout", Cause: err}
	case errors.Is(err, context.Canceled):
		return &conceptcard.ProviderError{Provider: id, Message: "request aborted", Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &conceptcard.ProviderError{Provider: id, Message: "request timeout", Cause: err}
	default:
		return &conceptcard.ProviderError{Provider: id, Message: "network error", Cause: err}
	}
}
