package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZaguanLabs/conceptcard"
)

const (
	geminiBaseURL   = "https://generativelanguage.googleapis.com"
	geminiModel     = "gemini-2.5-flash"
	geminiMaxTokens = 8192
)

// Gemini calls the Generative Language generateContent REST endpoint.
type Gemini struct {
	hc      *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewGemini creates a Gemini adapter.
func NewGemini(settings conceptcard.ProviderSettings, opts ...Option) *Gemini {
	o := applyOptions(opts)

	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	model := settings.Model
	if model == "" {
		model = geminiModel
	}
	apiKey := ""
	if settings.Configured() {
		apiKey = settings.APIKey
	}

	return &Gemini{hc: o.httpClient, baseURL: baseURL, model: model, apiKey: apiKey}
}

// Model returns the model requested from the provider.
func (g *Gemini) Model() string {
	return g.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type geminiRequest struct {
	SystemInstruction geminiContent          `json:"systemInstruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Analyze requests a Why/How/What analysis for concept.
func (g *Gemini) Analyze(ctx context.Context, concept string) (conceptcard.Analysis, error) {
	const id = conceptcard.ProviderGemini
	if g.apiKey == "" {
		return conceptcard.Analysis{}, missingKey(id)
	}

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: conceptcard.SystemPrompt()}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: conceptcard.UserMessage(concept)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      temperature,
			MaxOutputTokens:  geminiMaxTokens,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{Provider: id, Message: "failed to encode request", Cause: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{Provider: id, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", conceptcard.UserAgent())
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.hc.Do(req)
	if err != nil {
		return conceptcard.Analysis{}, transportError(id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		var eb geminiErrorBody
		msg := strings.TrimSpace(string(slurp))
		if json.Unmarshal(slurp, &eb) == nil && eb.Error.Message != "" {
			msg = eb.Error.Message
		}
		return conceptcard.Analysis{}, statusError(id, resp.StatusCode, msg)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		if ctx.Err() != nil {
			return conceptcard.Analysis{}, transportError(id, ctx.Err())
		}
		return conceptcard.Analysis{}, &conceptcard.ProviderError{
			Provider: id,
			Message:  "invalid response from Gemini: could not decode body",
			Cause:    err,
		}
	}
	if len(gr.Candidates) == 0 {
		return conceptcard.Analysis{}, &conceptcard.ProviderError{
			Provider: id,
			Message:  "invalid response from Gemini: no candidates",
		}
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return decodeAnalysis(id, sb.String())
}

var _ conceptcard.Adapter = (*Gemini)(nil)
