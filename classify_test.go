package conceptcard

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		msg       string
		category  Category
		retryable bool
	}{
		{"dial tcp: connection refused", CategoryNetwork, true},
		{"Network error while calling provider", CategoryNetwork, true},
		{"request timeout", CategoryTimeout, true},
		{"request aborted", CategoryTimeout, true},
		{"You exceeded your current quota", CategoryQuota, false},
		{"Rate limit reached for requests", CategoryQuota, false},
		{"401 Unauthorized: bad token", CategoryInvalidResponse, false},
		{"Gemini API key is not configured", CategoryInvalidResponse, false},
		{"Authentication Fails (no such user)", CategoryInvalidResponse, false},
		{"invalid JSON response from DeepSeek", CategoryInvalidResponse, true},
		{"could not parse body", CategoryInvalidResponse, true},
		{"503 Service Unavailable", CategoryProviderUnavailable, true},
		{"scheduled maintenance", CategoryProviderUnavailable, true},
		{"something odd happened", CategoryUnknown, true},
	}

	for _, tt := range tests {
		info := Classify(errors.New(tt.msg), "")
		if info.Category != tt.category {
			t.Errorf("%q: category = %s, want %s", tt.msg, info.Category, tt.category)
		}
		if info.Retryable != tt.retryable {
			t.Errorf("%q: retryable = %v, want %v", tt.msg, info.Retryable, tt.retryable)
		}
		if info.Message != tt.msg {
			t.Errorf("%q: message not preserved: %q", tt.msg, info.Message)
		}
	}
}

func TestClassify_PrecedenceOrder(t *testing.T) {
	// network is checked before timeout
	info := Classify(errors.New("timeout while establishing network connection"), "")
	if info.Category != CategoryNetwork {
		t.Errorf("expected network to win over timeout, got %s", info.Category)
	}

	// timeout before quota
	info = Classify(errors.New("timeout: rate limit window"), "")
	if info.Category != CategoryTimeout {
		t.Errorf("expected timeout to win over quota, got %s", info.Category)
	}

	// credential before generic invalid
	info = Classify(errors.New("invalid api key"), "")
	if info.Category != CategoryInvalidResponse || info.Retryable {
		t.Errorf("expected non-retryable credential error, got %+v", info)
	}

	// invalid before unavailable
	info = Classify(errors.New("invalid payload, service unavailable"), "")
	if info.Category != CategoryInvalidResponse || !info.Retryable {
		t.Errorf("expected retryable invalid_response, got %+v", info)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	info := Classify(errors.New("NETWORK DOWN"), "")
	if info.Category != CategoryNetwork {
		t.Errorf("expected network, got %s", info.Category)
	}
}

func TestClassify_TypedErrors(t *testing.T) {
	info := Classify(&ValidationError{Reason: ReasonEmpty}, "")
	if info.Category != CategoryValidation || info.Retryable {
		t.Errorf("unexpected validation info: %+v", info)
	}

	all := &AllProvidersFailedError{Attempts: []Attempt{
		{Provider: ProviderGemini, Err: errors.New("network error")},
		{Provider: ProviderOpenAI, Err: errors.New("timeout")},
	}}
	info = Classify(fmt.Errorf("wrapped: %w", all), "")
	if info.Category != CategoryAllProvidersFailed || info.Retryable {
		t.Errorf("unexpected all-failed info: %+v", info)
	}

	info = Classify(&ShareLinkError{Message: "encode failed"}, "")
	if info.Category != CategoryShareLink {
		t.Errorf("unexpected share link info: %+v", info)
	}

	info = Classify(&RenderError{Message: "invalid template"}, "")
	if info.Category != CategoryDownload || !info.Retryable {
		t.Errorf("unexpected render info: %+v", info)
	}
}

func TestClassify_ProviderAttribution(t *testing.T) {
	err := &ProviderError{Provider: ProviderDeepSeek, Message: "503 Service Unavailable"}

	info := Classify(err, "")
	if info.Provider != "DeepSeek" {
		t.Errorf("expected provider from error, got %q", info.Provider)
	}

	info = Classify(err, "Custom")
	if info.Provider != "Custom" {
		t.Errorf("explicit provider should win, got %q", info.Provider)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	err := errors.New("quota exceeded")
	if Classify(err, "x") != Classify(err, "x") {
		t.Error("classification should be deterministic")
	}
}

func TestErrorInfo_UserMessage(t *testing.T) {
	info := ErrorInfo{Category: CategoryTimeout, Message: "anything"}
	other := ErrorInfo{Category: CategoryTimeout, Message: "something else", Provider: "Gemini"}

	if info.UserMessage(LocaleEnglish) != other.UserMessage(LocaleEnglish) {
		t.Error("user message should depend only on category and locale")
	}
	if info.UserMessage(LocaleChinese) != "请求超时。AI 服务响应时间过长，请重试。" {
		t.Errorf("unexpected zh message: %q", info.UserMessage(LocaleChinese))
	}

	for category := range categoryMessages {
		i := ErrorInfo{Category: category}
		if i.UserMessage(LocaleEnglish) == "" || i.UserMessage(LocaleChinese) == "" {
			t.Errorf("missing message for %s", category)
		}
	}
}

func TestErrorInfo_ActionText(t *testing.T) {
	if got := (ErrorInfo{Category: CategoryProviderUnavailable, Retryable: true}).ActionText(LocaleEnglish); got != "Try Alternative Provider" {
		t.Errorf("unexpected action: %q", got)
	}
	if got := (ErrorInfo{Category: CategoryTimeout, Retryable: true}).ActionText(LocaleChinese); got != "重试" {
		t.Errorf("unexpected action: %q", got)
	}
	if got := (ErrorInfo{Category: CategoryQuota}).ActionText(LocaleEnglish); got != "Try Again Later" {
		t.Errorf("unexpected action: %q", got)
	}
	if !(ErrorInfo{Category: CategoryNetwork}).ShowFallback() {
		t.Error("network errors should offer fallback")
	}
}
