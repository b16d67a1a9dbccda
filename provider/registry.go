package provider

import "github.com/ZaguanLabs/conceptcard"

// factory builds the adapter for one provider.
type factory func(settings conceptcard.ProviderSettings, opts ...Option) conceptcard.Adapter

func compat(id conceptcard.ProviderID) factory {
	return func(settings conceptcard.ProviderSettings, opts ...Option) conceptcard.Adapter {
		return NewOpenAICompatible(id, settings, opts...)
	}
}

var factories = map[conceptcard.ProviderID]factory{
	conceptcard.ProviderGemini: func(settings conceptcard.ProviderSettings, opts ...Option) conceptcard.Adapter {
		return NewGemini(settings, opts...)
	},
	conceptcard.ProviderOpenAI:   compat(conceptcard.ProviderOpenAI),
	conceptcard.ProviderDeepSeek: compat(conceptcard.ProviderDeepSeek),
	conceptcard.ProviderGLM:      compat(conceptcard.ProviderGLM),
}

// NewAdapters builds one adapter per configured provider. Providers without a
// usable key are left out; providers with a request quota are paced.
func NewAdapters(cfg conceptcard.ProviderConfig, opts ...Option) map[conceptcard.ProviderID]conceptcard.Adapter {
	adapters := make(map[conceptcard.ProviderID]conceptcard.Adapter)
	for _, id := range conceptcard.Providers() {
		if !cfg.Available(id) {
			continue
		}
		adapter := factories[id](cfg[id], opts...)
		if rpm := cfg[id].RequestsPerMinute; rpm > 0 {
			adapter = conceptcard.NewPacedAdapter(adapter, rpm)
		}
		adapters[id] = adapter
	}
	return adapters
}

// Defaults returns the endpoint and model used for a provider when the
// configuration leaves them unset.
func Defaults(id conceptcard.ProviderID) conceptcard.ProviderSettings {
	if id == conceptcard.ProviderGemini {
		return conceptcard.ProviderSettings{BaseURL: geminiBaseURL, Model: geminiModel}
	}
	d := compatDefaults[id]
	if d.BaseURL == "" && id == conceptcard.ProviderOpenAI {
		d.BaseURL = "https://api.openai.com/v1"
	}
	return d
}
