package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const proxyBody = `{
	"why": {"title": {"en": "Why", "zh": "为什么"}, "content": {"en": "Trust without a middleman.", "zh": "无需中介的信任。"}},
	"how": {"title": "How", "content": "A notebook everyone holds a copy of."},
	"what": {
		"title": "What",
		"coreComponents": {"title": "Core Components", "content": "Blocks\nHashes"},
		"operatingMechanism": {"title": "Operating Mechanism", "content": "Consensus"},
		"applicationBoundaries": {"title": "Application Boundaries", "content": "Low throughput"}
	},
	"provider": "DeepSeek"
}`

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func newProxyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(proxyBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"version"}, &stdout, &stderr, envOf(nil))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "conceptcard") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_AnalyzeThroughProxy(t *testing.T) {
	srv := newProxyServer(t)
	env := envOf(map[string]string{
		"CONCEPTCARD_MODE":  "proxy",
		"PRODUCTION_DOMAIN": srv.URL,
	})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"analyze", "Blockchain", "--json", "--share"}, &stdout, &stderr, env); err != nil {
		t.Fatalf("analyze failed: %v\nstderr: %s", err, stderr.String())
	}

	var out analysisOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if out.Concept != "Blockchain" || out.Provider != "DeepSeek" {
		t.Errorf("unexpected output %+v", out)
	}
	if out.Analysis.How.Content.ZH != "A notebook everyone holds a copy of." {
		t.Errorf("missing language should be back-filled, got %+v", out.Analysis.How.Content)
	}
	prefix := srv.URL + "/share?lang=en&data="
	if !strings.HasPrefix(out.ShareURL, prefix) {
		t.Fatalf("unexpected share url %q", out.ShareURL)
	}

	// The share token decodes back to the same card.
	stdout.Reset()
	token := strings.TrimPrefix(out.ShareURL, prefix)
	if err := run([]string{"share", "decode", token, "--lang", "zh"}, &stdout, &stderr, envOf(nil)); err != nil {
		t.Fatalf("share decode failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "无需中介的信任。") {
		t.Errorf("decoded card should be in Chinese, got:\n%s", stdout.String())
	}
}

func TestRun_AnalyzeText(t *testing.T) {
	srv := newProxyServer(t)
	env := envOf(map[string]string{"CONCEPTCARD_MODE": "proxy", "PRODUCTION_DOMAIN": srv.URL})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"analyze", "Blockchain"}, &stdout, &stderr, env); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"Blockchain\n==========", "Trust without a middleman.", "  Core Components", "    Hashes", "-- DeepSeek"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_AnalyzeHTML(t *testing.T) {
	srv := newProxyServer(t)
	env := envOf(map[string]string{"CONCEPTCARD_MODE": "proxy", "PRODUCTION_DOMAIN": srv.URL})
	path := filepath.Join(t.TempDir(), "card.html")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"analyze", "Blockchain", "--html", path}, &stdout, &stderr, env); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("card not written: %v", err)
	}
	if !strings.Contains(string(data), "Generated by DeepSeek") {
		t.Error("card should name the provider")
	}
}

func TestRun_AnalyzeValidation(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"analyze", "a<b"}, &stdout, &stderr, envOf(nil))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid characters") || !strings.Contains(err.Error(), "[validation]") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRun_AnalyzeFailureAction(t *testing.T) {
	tests := []struct {
		name, message, action string
	}{
		{"retryable", "request timeout", "Retry."},
		{"quota", "rate limit exceeded", "Try Again Later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"error":{"message":"` + tt.message + `"}}`))
			}))
			defer srv.Close()
			env := envOf(map[string]string{"CONCEPTCARD_MODE": "proxy", "PRODUCTION_DOMAIN": srv.URL})

			var stdout, stderr bytes.Buffer
			err := run([]string{"analyze", "Entropy"}, &stdout, &stderr, env)
			if err == nil {
				t.Fatal("expected analysis failure")
			}
			if !strings.Contains(err.Error(), tt.action) {
				t.Errorf("error should offer %q, got %v", tt.action, err)
			}
		})
	}
}

func TestRun_AnalyzeNoProvider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"analyze", "Entropy", "--env-file", ""}, &stdout, &stderr, envOf(nil))
	if err == nil || !strings.Contains(err.Error(), "no AI provider configured") {
		t.Errorf("expected no provider error, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"providers"}, &stdout, &stderr, envOf(map[string]string{"CONCEPTCARD_MODE": "hybrid"}))
	if err == nil || !strings.Contains(err.Error(), "mode") {
		t.Errorf("expected mode error, got %v", err)
	}
}

func TestRun_ProvidersFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(envFile, []byte("DEEPSEEK_API_KEY=sk-test\nCONCEPTCARD_PROVIDER=deepseek\n"), 0o600)

	var stdout, stderr bytes.Buffer
	err := run([]string{"providers", "--env-file", envFile}, &stdout, &stderr, envOf(map[string]string{"GEMINI_API_KEY": "g"}))
	if err != nil {
		t.Fatalf("providers failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"DeepSeek (preferred)", "deepseek-chat", "https://api.deepseek.com/v1", "gemini-2.5-flash", "glm-4.5-air"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "yes") != 2 {
		t.Errorf("expected gemini and deepseek configured:\n%s", out)
	}
}

func TestRun_ShareDecodeCorrupt(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"share", "decode", "%%%"}, &stdout, &stderr, envOf(nil))
	if err == nil || !strings.Contains(err.Error(), "shareable link") {
		t.Errorf("expected share link error, got %v", err)
	}
}

func TestRun_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conceptcard.toml")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"config", "init", path}, &stdout, &stderr, envOf(nil)); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if err := run([]string{"config", "init", path}, &stdout, &stderr, envOf(nil)); err == nil {
		t.Error("existing file should not be overwritten without --force")
	}

	stdout.Reset()
	if err := run([]string{"providers", "--config", path}, &stdout, &stderr, envOf(nil)); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

func TestRun_HistoryExport(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"history", "export"}, &stdout, &stderr, envOf(nil)); err != nil {
		t.Fatalf("history export failed: %v", err)
	}
	var exported struct {
		Concepts []string `json:"concepts"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &exported); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if !strings.Contains(stderr.String(), "REDIS_URL") {
		t.Error("in-memory history should be pointed out")
	}
}
