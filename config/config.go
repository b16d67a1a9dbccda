// Package config loads conceptcard settings from defaults, an optional TOML
// file and the environment, in that order.
//
// Environment names follow the original deployment (GEMINI_API_KEY,
// DEEPSEEK_API_KEY, PRODUCTION_DOMAIN and friends) so an existing .env file
// keeps working.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/pelletier/go-toml/v2"
)

// Mode selects where provider credentials live.
type Mode string

const (
	// ModeDirect calls providers with locally held keys.
	ModeDirect Mode = "direct"
	// ModeProxy sends every request to a backend proxy that holds the keys.
	ModeProxy Mode = "proxy"
)

// Provider holds the settings for one AI provider.
type Provider struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`

	RequestsPerMinute int `toml:"requests_per_minute"`
}

// Providers groups the per-provider sections.
type Providers struct {
	Gemini   Provider `toml:"gemini"`
	OpenAI   Provider `toml:"openai"`
	DeepSeek Provider `toml:"deepseek"`
	GLM      Provider `toml:"glm45"`
}

// Server configures the HTTP backend.
type Server struct {
	Listen string `toml:"listen"`
}

// Proxy configures proxy mode.
type Proxy struct {
	BaseURL string `toml:"base_url"`
}

// History configures the recent-concepts store. An empty RedisURL keeps the
// history in memory.
type History struct {
	RedisURL   string `toml:"redis_url"`
	KeyPrefix  string `toml:"key_prefix"`
	Size       int    `toml:"size"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the history expiry as a duration. Zero means no expiry.
func (h History) TTL() time.Duration {
	return time.Duration(h.TTLSeconds) * time.Second
}

// Logging configures the process logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for conceptcard.
type Config struct {
	Mode      Mode      `toml:"mode"`
	Provider  string    `toml:"provider"`
	Server    Server    `toml:"server"`
	Proxy     Proxy     `toml:"proxy"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
	Providers Providers `toml:"providers"`
}

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(string) string

// Load builds a Config from defaults, the TOML file at path and then the
// environment. An empty path tries DefaultFileName in the working directory;
// a missing file is not an error. A nil getenv reads the process environment.
func Load(path string, getenv Getenv) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv Getenv) error {
	set := func(dst *string, names ...string) {
		for _, name := range names {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Providers.Gemini.APIKey, "GEMINI_API_KEY", "API_KEY")
	set(&c.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.Providers.DeepSeek.APIKey, "DEEPSEEK_API_KEY")
	set(&c.Providers.GLM.APIKey, "GLM_API_KEY", "GLM_45_AIR_API_KEY")

	set(&c.Providers.Gemini.BaseURL, "GEMINI_BASE_URL")
	set(&c.Providers.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&c.Providers.DeepSeek.BaseURL, "DEEPSEEK_BASE_URL")
	set(&c.Providers.GLM.BaseURL, "GLM_BASE_URL", "GLM_45_AIR_BASE_URL")

	set(&c.Proxy.BaseURL, "PRODUCTION_DOMAIN")
	set(&c.Provider, "CONCEPTCARD_PROVIDER")
	set(&c.History.RedisURL, "REDIS_URL")
	set(&c.Logging.Level, "CONCEPTCARD_LOG_LEVEL")
	set(&c.Logging.Format, "CONCEPTCARD_LOG_FORMAT")

	var mode string
	set(&mode, "CONCEPTCARD_MODE")
	if mode != "" {
		c.Mode = Mode(mode)
	}

	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("PORT must be numeric, got %q", port)
		}
		c.Server.Listen = ":" + port
	}
	set(&c.Server.Listen, "CONCEPTCARD_LISTEN")
	return nil
}

func (c *Config) normalize() {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if c.Mode == "" {
		c.Mode = ModeDirect
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Proxy.BaseURL = strings.TrimRight(strings.TrimSpace(c.Proxy.BaseURL), "/")
	if c.Proxy.BaseURL != "" && !strings.Contains(c.Proxy.BaseURL, "://") {
		c.Proxy.BaseURL = "https://" + c.Proxy.BaseURL
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.History.Size <= 0 {
		c.History.Size = defaultHistorySize
	}
	if strings.TrimSpace(c.History.KeyPrefix) == "" {
		c.History.KeyPrefix = defaultKeyPrefix
	}
}

// ProviderConfig returns the read-only provider snapshot used by the
// resolver and the adapters.
func (c *Config) ProviderConfig() conceptcard.ProviderConfig {
	settings := func(p Provider) conceptcard.ProviderSettings {
		return conceptcard.ProviderSettings{
			APIKey:  strings.TrimSpace(p.APIKey),
			BaseURL: strings.TrimSpace(p.BaseURL),
			Model:   strings.TrimSpace(p.Model),

			RequestsPerMinute: p.RequestsPerMinute,
		}
	}
	return conceptcard.ProviderConfig{
		conceptcard.ProviderGemini:   settings(c.Providers.Gemini),
		conceptcard.ProviderOpenAI:   settings(c.Providers.OpenAI),
		conceptcard.ProviderDeepSeek: settings(c.Providers.DeepSeek),
		conceptcard.ProviderGLM:      settings(c.Providers.GLM),
	}
}

// PreferredProvider returns the configured preference, or "" when unset.
func (c *Config) PreferredProvider() conceptcard.ProviderID {
	id, _ := conceptcard.ParseProviderID(c.Provider)
	return id
}

// CreateSample writes a commented sample configuration file.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
