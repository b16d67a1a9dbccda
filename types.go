package conceptcard

import "strings"

// BilingualText holds the same text in English and Simplified Chinese.
type BilingualText struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// In returns the text for the given locale.
func (b BilingualText) In(loc Locale) string {
	if loc == LocaleChinese {
		return b.ZH
	}
	return b.EN
}

// Section is a titled block of content.
type Section struct {
	Title   BilingualText `json:"title"`
	Content BilingualText `json:"content"`
}

// WhatSection breaks a concept down into its mental model.
type WhatSection struct {
	Title                 BilingualText `json:"title"`
	CoreComponents        Section       `json:"coreComponents"`
	OperatingMechanism    Section       `json:"operatingMechanism"`
	ApplicationBoundaries Section       `json:"applicationBoundaries"`
}

// Analysis is the canonical Why/How/What result for a concept.
type Analysis struct {
	Why  Section     `json:"why"`
	How  Section     `json:"how"`
	What WhatSection `json:"what"`
}

// ShareableState is the unit encoded into share links.
type ShareableState struct {
	Concept  string   `json:"concept"`
	Analysis Analysis `json:"analysis"`
}

// ProviderID identifies one of the supported AI backends.
type ProviderID string

const (
	// ProviderGemini is Google's Gemini API.
	ProviderGemini ProviderID = "gemini"
	// ProviderOpenAI is the OpenAI chat completions API.
	ProviderOpenAI ProviderID = "openai"
	// ProviderDeepSeek is DeepSeek's OpenAI-compatible API.
	ProviderDeepSeek ProviderID = "deepseek"
	// ProviderGLM is Zhipu's GLM-4.5-Air through its OpenAI-compatible API.
	ProviderGLM ProviderID = "glm45"
)

var providerNames = map[ProviderID]string{
	ProviderGemini:   "Gemini",
	ProviderOpenAI:   "OpenAI",
	ProviderDeepSeek: "DeepSeek",
	ProviderGLM:      "GLM-4.5-Air",
}

// Providers returns every known provider in declaration order.
func Providers() []ProviderID {
	return []ProviderID{ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderGLM}
}

// Valid reports whether p is one of the known providers.
func (p ProviderID) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// DisplayName returns the human-readable provider name.
func (p ProviderID) DisplayName() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return string(p)
}

// ParseProviderID parses a provider tag case-insensitively.
func ParseProviderID(s string) (ProviderID, bool) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", false
	}
	return id, true
}
