package conceptcard

import (
	"errors"
	"strings"
)

// Category is the user-facing class of a failure.
type Category string

const (
	CategoryValidation          Category = "validation"
	CategoryNetwork             Category = "network"
	CategoryTimeout             Category = "timeout"
	CategoryQuota               Category = "quota"
	CategoryInvalidResponse     Category = "invalid_response"
	CategoryProviderUnavailable Category = "provider_unavailable"
	CategoryAllProvidersFailed  Category = "all_providers_failed"
	CategoryShareLink           Category = "share_link"
	CategoryDownload            Category = "download"
	CategoryUnknown             Category = "unknown"
)

// ErrorInfo is a classified failure.
type ErrorInfo struct {
	Category  Category `json:"category"`
	Message   string   `json:"message"`
	Provider  string   `json:"provider,omitempty"`
	Retryable bool     `json:"retryable"`
}

// rule maps message substrings to a category. Rules are checked in order and
// the first match wins.
type rule struct {
	patterns  []string
	category  Category
	retryable bool
}

var rules = []rule{
	{[]string{"network", "connection"}, CategoryNetwork, true},
	{[]string{"timeout", "aborted"}, CategoryTimeout, true},
	{[]string{"quota", "limit", "rate limit"}, CategoryQuota, false},
	{[]string{"unauthorized", "api key", "authentication"}, CategoryInvalidResponse, false},
	{[]string{"invalid", "parse", "format"}, CategoryInvalidResponse, true},
	{[]string{"unavailable", "down", "maintenance"}, CategoryProviderUnavailable, true},
}

// Classify maps an error to a category and retryability. The provider name is
// recorded when given, or taken from a ProviderError in the chain.
func Classify(err error, provider string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Category: CategoryUnknown, Provider: provider, Retryable: true}
	}

	info := ErrorInfo{Message: err.Error(), Provider: provider}
	if info.Provider == "" {
		var perr *ProviderError
		if errors.As(err, &perr) {
			info.Provider = perr.Provider.DisplayName()
		}
	}

	var verr *ValidationError
	var aerr *AllProvidersFailedError
	var serr *ShareLinkError
	var rerr *RenderError
	switch {
	case errors.As(err, &verr):
		info.Category = CategoryValidation
		info.Retryable = false
		return info
	case errors.As(err, &aerr):
		info.Category = CategoryAllProvidersFailed
		info.Retryable = false
		return info
	case errors.As(err, &serr):
		info.Category = CategoryShareLink
		info.Retryable = true
		return info
	case errors.As(err, &rerr):
		info.Category = CategoryDownload
		info.Retryable = true
		return info
	}

	msg := strings.ToLower(info.Message)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(msg, p) {
				info.Category = r.category
				info.Retryable = r.retryable
				return info
			}
		}
	}

	info.Category = CategoryUnknown
	info.Retryable = true
	return info
}

var categoryMessages = map[Category][2]string{
	CategoryValidation: {
		"The concept contains invalid characters. Please enter a valid concept.",
		"概念包含无效字符。请输入有效的概念。",
	},
	CategoryNetwork: {
		"Network connection failed. Please check your internet connection and try again.",
		"网络连接失败。请检查您的网络连接并重试。",
	},
	CategoryTimeout: {
		"Request timed out. The AI service took too long to respond. Please try again.",
		"请求超时。AI 服务响应时间过长，请重试。",
	},
	CategoryQuota: {
		"API quota exceeded. Please try again later or check your API key usage.",
		"API 配额已用完。请稍后重试或检查您的 API 密钥使用情况。",
	},
	CategoryInvalidResponse: {
		"Invalid response from AI service. Please try again.",
		"AI 服务返回无效响应。请重试。",
	},
	CategoryProviderUnavailable: {
		"AI provider is temporarily unavailable. Trying alternative providers...",
		"AI 提供程序暂时不可用。正在尝试备用提供商...",
	},
	CategoryAllProvidersFailed: {
		"All AI providers failed. Please check your API keys and try again later.",
		"所有 AI 提供程序都失败了。请检查您的 API 密钥并稍后重试。",
	},
	CategoryShareLink: {
		"Failed to generate shareable link. Please try again.",
		"生成分享链接失败。请重试。",
	},
	CategoryDownload: {
		"Failed to generate download image. Please try again.",
		"生成下载图片失败。请重试。",
	},
	CategoryUnknown: {
		"Failed to analyze the concept. Please ensure the API key is valid and try again.",
		"分析概念失败。请确保 API 密钥有效并重试。",
	},
}

// UserMessage returns the localized message for the category. It depends on
// nothing but the category and the locale.
func (i ErrorInfo) UserMessage(loc Locale) string {
	msgs, ok := categoryMessages[i.Category]
	if !ok {
		msgs = categoryMessages[CategoryUnknown]
	}
	return localized(loc, msgs[0], msgs[1])
}

// ActionText returns the label of the action offered next to the error.
func (i ErrorInfo) ActionText(loc Locale) string {
	switch {
	case i.Category == CategoryProviderUnavailable:
		return localized(loc, "Try Alternative Provider", "尝试其他提供商")
	case i.Retryable:
		return localized(loc, "Retry", "重试")
	default:
		return localized(loc, "Try Again Later", "稍后重试")
	}
}

// ShowFallback reports whether switching provider is worth suggesting.
func (i ErrorInfo) ShowFallback() bool {
	return i.Category == CategoryProviderUnavailable || i.Category == CategoryNetwork
}
