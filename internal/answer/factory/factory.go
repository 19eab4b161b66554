// Package factory builds the answer provider selected in the configuration.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/ragask/internal/answer"
	"github.com/at-ishikawa/ragask/internal/answer/gemini"
	"github.com/at-ishikawa/ragask/internal/answer/ollama"
	"github.com/at-ishikawa/ragask/internal/answer/openai"
	"github.com/at-ishikawa/ragask/internal/answer/remote"
	"github.com/at-ishikawa/ragask/internal/config"
)

// New returns the provider for cfg.Kind and a function that releases its resources
func New(ctx context.Context, cfg config.ProviderConfig) (answer.Provider, func() error, error) {
	noop := func() error { return nil }

	slog.Default().Debug("creating answer provider", "kind", cfg.Kind)
	switch cfg.Kind {
	case config.ProviderRemote:
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, cfg.MaxRetryAttempts)
		return client, client.Close, nil
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.MaxRetryAttempts)
		return client, client.Close, nil
	case config.ProviderOllama:
		client, err := ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("ollama.NewClient() > %w", err)
		}
		return client, noop, nil
	case config.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini.NewClient() > %w", err)
		}
		return client, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown answer provider %q", cfg.Kind)
}
