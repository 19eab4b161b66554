package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 60 * time.Second,
			AllowedOrigin:  "http://localhost:3000",
		},
		Provider: ProviderConfig{
			Kind:             ProviderRemote,
			MaxRetryAttempts: 2,
			Remote: RemoteConfig{
				BaseURL: "http://localhost:5001",
				Timeout: 30 * time.Second,
			},
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
			Ollama: OllamaConfig{
				Host:  "http://localhost:11434",
				Model: "llama3",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `server:
  host: 127.0.0.1
  port: 9090
  request_timeout: 5s
provider:
  kind: ollama
  max_retry_attempts: 0
  ollama:
    host: http://ollama:11434
    model: mistral
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Host = "127.0.0.1"
				cfg.Server.Port = 9090
				cfg.Server.RequestTimeout = 5 * time.Second
				cfg.Provider.Kind = ProviderOllama
				cfg.Provider.MaxRetryAttempts = 0
				cfg.Provider.Ollama.Host = "http://ollama:11434"
				cfg.Provider.Ollama.Model = "mistral"
				return cfg
			},
		},
		{
			name: "explicit config path",
			configContent: `provider:
  remote:
    base_url: http://rag:5001
    timeout: 10s
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Provider.Remote.BaseURL = "http://rag:5001"
				cfg.Provider.Remote.Timeout = 10 * time.Second
				return cfg
			},
		},
		{
			name:          "environment variables override defaults",
			configContent: "",
			env: map[string]string{
				"PORT":            "10000",
				"RAG_PROVIDER":    "openai",
				"OPENAI_API_KEY":  "sk-test",
				"OPENAI_MODEL":    "gpt-4o",
				"RAG_SERVICE_URL": "http://python-rag:5001",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Port = 10000
				cfg.Provider.Kind = ProviderOpenAI
				cfg.Provider.OpenAI.APIKey = "sk-test"
				cfg.Provider.OpenAI.Model = "gpt-4o"
				cfg.Provider.Remote.BaseURL = "http://python-rag:5001"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `server:
  port: 8080
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown provider",
			configContent: `provider:
  kind: llamaindex
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "kind must be one of"},
		},
		{
			name: "invalid remote URL",
			configContent: `provider:
  remote:
    base_url: localhost-5001
`,
			wantErr:           true,
			wantErrorContains: []string{"provider.remote.base_url must be an absolute URL"},
		},
		{
			name: "openai without API key",
			configContent: `provider:
  kind: openai
`,
			wantErr:           true,
			wantErrorContains: []string{"OPENAI_API_KEY environment variable is required"},
		},
		{
			name: "gemini without API key",
			configContent: `provider:
  kind: gemini
`,
			wantErr:           true,
			wantErrorContains: []string{"GEMINI_API_KEY environment variable is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "RAG_PROVIDER", "RAG_SERVICE_URL", "OPENAI_API_KEY", "OPENAI_MODEL", "OLLAMA_HOST", "OLLAMA_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL"} {
				t.Setenv(key, "")
				require.NoError(t, os.Unsetenv(key))
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			tempDir := t.TempDir()
			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "ragask.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}
				t.Chdir(tempDir)
				t.Setenv("HOME", tempDir)
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", ServerConfig{Host: "0.0.0.0", Port: 8080}.Address())
	assert.Equal(t, ":10000", ServerConfig{Port: 10000}.Address())
}
