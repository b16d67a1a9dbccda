package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/sashabaranov/go-openai"
)

// compatDefaults holds the endpoint and model of each OpenAI-compatible
// provider. An empty BaseURL keeps the go-openai default.
var compatDefaults = map[conceptcard.ProviderID]conceptcard.ProviderSettings{
	conceptcard.ProviderOpenAI:   {Model: "gpt-4o"},
	conceptcard.ProviderDeepSeek: {BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	conceptcard.ProviderGLM:      {BaseURL: "https://open.bigmodel.cn/api/paas/v4", Model: "glm-4.5-air"},
}

// OpenAICompatible calls a chat completions API. It serves OpenAI, DeepSeek
// and GLM-4.5-Air.
type OpenAICompatible struct {
	id     conceptcard.ProviderID
	client *openai.Client
	model  string
	apiKey string
}

// NewOpenAICompatible creates an adapter for one of the OpenAI-compatible
// providers. Unset BaseURL and Model fall back to the provider defaults.
func NewOpenAICompatible(id conceptcard.ProviderID, settings conceptcard.ProviderSettings, opts ...Option) *OpenAICompatible {
	o := applyOptions(opts)
	defaults := compatDefaults[id]

	config := openai.DefaultConfig(settings.APIKey)
	config.HTTPClient = o.httpClient
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaults.BaseURL
	}
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	model := settings.Model
	if model == "" {
		model = defaults.Model
	}

	apiKey := ""
	if settings.Configured() {
		apiKey = settings.APIKey
	}

	return &OpenAICompatible{
		id:     id,
		client: openai.NewClientWithConfig(config),
		model:  model,
		apiKey: apiKey,
	}
}

// ID returns the provider this adapter serves.
func (p *OpenAICompatible) ID() conceptcard.ProviderID {
	return p.id
}

// Model returns the model requested from the provider.
func (p *OpenAICompatible) Model() string {
	return p.model
}

// Analyze requests a Why/How/What analysis for concept.
func (p *OpenAICompatible) Analyze(ctx context.Context, concept string) (conceptcard.Analysis, error) {
	if p.apiKey == "" {
		return conceptcard.Analysis{}, missingKey(p.id)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: conceptcard.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: conceptcard.UserMessage(concept)},
		},
		Temperature: temperature,
		MaxTokens:   maxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return conceptcard.Analysis{}, p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{
			Provider: p.id,
			Message:  "invalid response from " + p.id.DisplayName() + ": no choices",
		}
	}

	return decodeAnalysis(p.id, messageText(resp.Choices[0].Message))
}

func (p *OpenAICompatible) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return statusError(p.id, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return statusError(p.id, reqErr.HTTPStatusCode, msg)
	}

	return transportError(p.id, err)
}

// messageText returns the text of a chat message, joining multi-part
// content when the plain content is empty.
func messageText(msg openai.ChatCompletionMessage) string {
	if msg.Content != "" {
		return msg.Content
	}
	var sb strings.Builder
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

var _ conceptcard.Adapter = (*OpenAICompatible)(nil)
