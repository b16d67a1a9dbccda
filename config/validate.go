package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/ZaguanLabs/conceptcard"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMode(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMode() error {
	switch c.Mode {
	case ModeDirect:
		return nil
	case ModeProxy:
		if c.Proxy.BaseURL == "" {
			return errors.New("proxy.base_url is required in proxy mode. Set PRODUCTION_DOMAIN or edit the config file")
		}
		if _, err := url.Parse(c.Proxy.BaseURL); err != nil {
			return fmt.Errorf("proxy.base_url: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("mode: unsupported value %q (want direct or proxy)", c.Mode)
	}
}

func (c *Config) validateProvider() error {
	if c.Provider == "" {
		return nil
	}
	if _, ok := conceptcard.ParseProviderID(c.Provider); !ok {
		return fmt.Errorf("provider: unknown provider %q", c.Provider)
	}
	return nil
}

func (c *Config) validateProviders() error {
	for name, p := range map[string]Provider{
		"gemini":   c.Providers.Gemini,
		"openai":   c.Providers.OpenAI,
		"deepseek": c.Providers.DeepSeek,
		"glm45":    c.Providers.GLM,
	} {
		if p.RequestsPerMinute < 0 {
			return fmt.Errorf("providers.%s.requests_per_minute must be non-negative", name)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.TTLSeconds < 0 {
		return errors.New("history.ttl_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
