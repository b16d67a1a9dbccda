package conceptcard

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolver_PriorityOrder(t *testing.T) {
	cfg := ProviderConfig{
		ProviderDeepSeek: {APIKey: "ds"},
		ProviderGemini:   {APIKey: "gm"},
	}

	ids, err := NewResolver(cfg, DirectPriority()).Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []ProviderID{ProviderGemini, ProviderDeepSeek}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestResolver_HintFirstAndDeduplicated(t *testing.T) {
	cfg := ProviderConfig{
		ProviderGLM:      {APIKey: "glm"},
		ProviderDeepSeek: {APIKey: "ds"},
	}

	ids, err := NewResolver(cfg, ServerPriority()).Resolve(ProviderDeepSeek)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []ProviderID{ProviderDeepSeek, ProviderGLM}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestResolver_UnavailableHintIgnored(t *testing.T) {
	cfg := ProviderConfig{ProviderGLM: {APIKey: "glm"}}

	ids, err := NewResolver(cfg, ServerPriority()).Resolve(ProviderOpenAI)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []ProviderID{ProviderGLM}) {
		t.Errorf("got %v", ids)
	}
}

func TestResolver_PlaceholderAndBlankKeys(t *testing.T) {
	cfg := ProviderConfig{
		ProviderGemini:   {APIKey: "undefined"},
		ProviderOpenAI:   {APIKey: "   "},
		ProviderDeepSeek: {APIKey: ""},
	}

	_, err := NewResolver(cfg, DirectPriority()).Resolve("")
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	cfg := ProviderConfig{
		ProviderGemini:   {APIKey: "a"},
		ProviderOpenAI:   {APIKey: "b"},
		ProviderDeepSeek: {APIKey: "c"},
		ProviderGLM:      {APIKey: "d"},
	}
	r := NewResolver(cfg, DirectPriority())

	first, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _ := r.Resolve("")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resolution changed between calls: %v vs %v", first, again)
		}
	}
}

func TestResolver_PriorityIsCopied(t *testing.T) {
	priority := DirectPriority()
	r := NewResolver(ProviderConfig{}, priority)
	priority[0] = ProviderGLM

	if r.Priority()[0] != ProviderGemini {
		t.Error("resolver should not share the caller's slice")
	}
}

func TestProxyHint(t *testing.T) {
	if got := ProxyHint("DeepSeek"); got != ProviderDeepSeek {
		t.Errorf("expected deepseek, got %q", got)
	}
	if got := ProxyHint(""); got != ProviderGLM {
		t.Errorf("expected first server provider, got %q", got)
	}
	if got := ProxyHint("unknown"); got != ProviderGLM {
		t.Errorf("expected first server provider, got %q", got)
	}
}
