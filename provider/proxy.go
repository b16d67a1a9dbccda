package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/conceptcard"
)

// maxProxyResponse caps the body read from the backend.
const maxProxyResponse = 1 << 20

// Proxy calls a conceptcard backend that holds the provider credentials
// itself. It implements conceptcard.Transport.
type Proxy struct {
	hc      *http.Client
	baseURL string
	hint    conceptcard.ProviderID
}

// NewProxy creates a proxy client for the backend at baseURL. The hint is sent
// with every request and tried first by the backend.
func NewProxy(baseURL string, hint conceptcard.ProviderID, opts ...Option) *Proxy {
	o := applyOptions(opts)
	return &Proxy{
		hc:      o.httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		hint:    hint,
	}
}

type proxyRequest struct {
	Concept  string `json:"concept"`
	Provider string `json:"provider,omitempty"`
}

type proxyError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze posts the concept to the backend's analyze endpoint.
func (p *Proxy) Analyze(ctx context.Context, concept string) (*conceptcard.Result, error) {
	body, err := json.Marshal(proxyRequest{Concept: strings.TrimSpace(concept), Provider: string(p.hint)})
	if err != nil {
		return nil, fmt.Errorf("encode proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", conceptcard.UserAgent())

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, transportError(p.hint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyResponse))
	if err != nil {
		return nil, transportError(p.hint, err)
	}

	if resp.StatusCode/100 != 2 {
		msg := "Could not parse error response."
		var pe proxyError
		if json.Unmarshal(data, &pe) == nil {
			msg = pe.Error.Message
			if msg == "" {
				msg = "Unknown API error"
			}
		}
		return nil, &conceptcard.ProviderError{
			Provider: p.hint,
			Message:  fmt.Sprintf("API Error: %d %s - %s", resp.StatusCode, http.StatusText(resp.StatusCode), msg),
			Status:   resp.StatusCode,
		}
	}

	var envelope struct {
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &conceptcard.ProviderError{
			Provider: p.hint,
			Message:  "invalid JSON response from backend",
			Raw:      string(data),
			Cause:    err,
		}
	}

	analysis, _ := conceptcard.NormalizeJSON(data)
	result := &conceptcard.Result{Analysis: analysis, ProviderName: envelope.Provider}
	for _, id := range conceptcard.Providers() {
		if id.DisplayName() == envelope.Provider {
			result.Provider = id
		}
	}
	return result, nil
}

var _ conceptcard.Transport = (*Proxy)(nil)
