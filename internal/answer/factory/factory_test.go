package factory

import (
	"context"
	"testing"
	"time"

	"github.com/at-ishikawa/ragask/internal/answer/gemini"
	"github.com/at-ishikawa/ragask/internal/answer/ollama"
	"github.com/at-ishikawa/ragask/internal/answer/openai"
	"github.com/at-ishikawa/ragask/internal/answer/remote"
	"github.com/at-ishikawa/ragask/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ProviderConfig
		wantType any
		wantErr  string
	}{
		{
			name: "remote",
			cfg: config.ProviderConfig{
				Kind:   config.ProviderRemote,
				Remote: config.RemoteConfig{BaseURL: "http://localhost:5001", Timeout: time.Second},
			},
			wantType: &remote.Client{},
		},
		{
			name: "openai",
			cfg: config.ProviderConfig{
				Kind:   config.ProviderOpenAI,
				OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
			},
			wantType: &openai.Client{},
		},
		{
			name: "openai without key",
			cfg: config.ProviderConfig{
				Kind: config.ProviderOpenAI,
			},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "ollama",
			cfg: config.ProviderConfig{
				Kind:   config.ProviderOllama,
				Ollama: config.OllamaConfig{Host: "http://localhost:11434", Model: "llama3"},
			},
			wantType: &ollama.Client{},
		},
		{
			name: "gemini",
			cfg: config.ProviderConfig{
				Kind:   config.ProviderGemini,
				Gemini: config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.5-flash"},
			},
			wantType: &gemini.Client{},
		},
		{
			name: "gemini without key",
			cfg: config.ProviderConfig{
				Kind: config.ProviderGemini,
			},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "unknown",
			cfg:     config.ProviderConfig{Kind: "llamaindex"},
			wantErr: `unknown answer provider "llamaindex"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, closeFn, err := New(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, provider)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, provider)
			require.NotNil(t, closeFn)
			assert.NoError(t, closeFn())
		})
	}
}
