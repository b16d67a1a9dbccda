package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/config"
	"github.com/ZaguanLabs/conceptcard/history"
	"github.com/ZaguanLabs/conceptcard/logging"
	"github.com/ZaguanLabs/conceptcard/provider"
	"github.com/joho/godotenv"
)

// commandContext carries process state shared by every subcommand. The
// configuration and logger are built on first use.
type commandContext struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configFlag  string
	envFileFlag string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
}

func newCommandContext(stdout, stderr io.Writer, getenv func(string) string) *commandContext {
	return &commandContext{
		stdout: stdout,
		stderr: stderr,
		getenv: getenv,
		logger: logging.Discard(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		getenv, err := c.environment()
		if err != nil {
			c.configErr = err
			return
		}
		c.config, c.configErr = config.Load(c.configFlag, getenv)
		if c.configErr != nil {
			return
		}
		c.logger, c.configErr = logging.New(c.stderr, logging.Options{
			Level:  c.config.Logging.Level,
			Format: c.config.Logging.Format,
		})
	})
	return c.config, c.configErr
}

// environment layers the env file under the process environment. Process
// variables win, matching godotenv.Load.
func (c *commandContext) environment() (config.Getenv, error) {
	fileVals := map[string]string{}
	if c.envFileFlag != "" {
		vals, err := godotenv.Read(c.envFileFlag)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read env file %s: %w", c.envFileFlag, err)
		}
	}
	return func(key string) string {
		if v := c.getenv(key); v != "" {
			return v
		}
		return fileVals[key]
	}, nil
}

// transport builds the analysis transport for the configured mode.
func (c *commandContext) transport(cfg *config.Config) conceptcard.Transport {
	if cfg.Mode == config.ModeProxy {
		return provider.NewProxy(cfg.Proxy.BaseURL, conceptcard.ProxyHint(cfg.Provider))
	}
	pc := cfg.ProviderConfig()
	return conceptcard.NewOrchestrator(
		conceptcard.NewResolver(pc, conceptcard.DirectPriority()),
		provider.NewAdapters(pc),
		conceptcard.WithPreferredProvider(cfg.PreferredProvider()),
		conceptcard.WithLogger(c.logger),
	)
}

// historyStore opens the Redis history when configured and an in-memory one
// otherwise. The returned func releases it.
func (c *commandContext) historyStore(cfg *config.Config) (history.Store, func(), error) {
	if cfg.History.RedisURL == "" {
		return history.NewMemory(cfg.History.Size), func() {}, nil
	}
	store, err := history.NewRedis(history.RedisConfig{
		URL:       cfg.History.RedisURL,
		KeyPrefix: cfg.History.KeyPrefix,
		Size:      cfg.History.Size,
		TTL:       cfg.History.TTLSeconds,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			c.logger.Warn("close history", slog.String("error", err.Error()))
		}
	}, nil
}
