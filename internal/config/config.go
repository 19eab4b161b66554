package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/at-ishikawa/ragask/internal/validation"
	"github.com/spf13/viper"
)

const (
	ProviderRemote = "remote"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigin  string        `mapstructure:"allowed_origin"`
}

// Address returns the address the HTTP server listens on
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type ProviderConfig struct {
	Kind             string       `mapstructure:"kind" validate:"oneof=remote openai ollama gemini"`
	MaxRetryAttempts uint         `mapstructure:"max_retry_attempts" validate:"max=10"`
	Remote           RemoteConfig `mapstructure:"remote"`
	OpenAI           OpenAIConfig `mapstructure:"openai"`
	Ollama           OllamaConfig `mapstructure:"ollama"`
	Gemini           GeminiConfig `mapstructure:"gemini"`
}

type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host  string `mapstructure:"host" validate:"omitempty,url"`
	Model string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ragask")
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")
	v.SetDefault("provider.kind", ProviderRemote)
	v.SetDefault("provider.max_retry_attempts", 2)
	v.SetDefault("provider.remote.base_url", "http://localhost:5001")
	v.SetDefault("provider.remote.timeout", "30s")
	v.SetDefault("provider.openai.model", "gpt-4o-mini")
	v.SetDefault("provider.ollama.host", "http://localhost:11434")
	v.SetDefault("provider.ollama.model", "llama3")
	v.SetDefault("provider.gemini.model", "gemini-2.5-flash")

	envBindings := map[string]string{
		"server.port":              "PORT",
		"provider.kind":            "RAG_PROVIDER",
		"provider.remote.base_url": "RAG_SERVICE_URL",
		"provider.openai.model":    "OPENAI_MODEL",
		"provider.ollama.host":     "OLLAMA_HOST",
		"provider.ollama.model":    "OLLAMA_MODEL",
		"provider.gemini.model":    "GEMINI_MODEL",
		// API keys are expected to come from the environment
		"provider.openai.api_key": "OPENAI_API_KEY",
		"provider.gemini.api_key": "GEMINI_API_KEY",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and the settings the selected provider needs
func (cfg *Config) Validate() error {
	validate, err := validation.New("mapstructure")
	if err != nil {
		return fmt.Errorf("validation.New() > %w", err)
	}

	fieldErrs, err := validate.Struct(cfg)
	if err != nil {
		return err
	}
	var messages []string
	for _, fieldErr := range fieldErrs {
		messages = append(messages, fieldErr.Message)
	}

	switch cfg.Provider.Kind {
	case ProviderRemote:
		if cfg.Provider.Remote.BaseURL == "" {
			messages = append(messages, "RAG_SERVICE_URL or provider.remote.base_url is required for the remote provider")
		}
	case ProviderOpenAI:
		if cfg.Provider.OpenAI.APIKey == "" {
			messages = append(messages, "OPENAI_API_KEY environment variable is required for the openai provider")
		}
	case ProviderGemini:
		if cfg.Provider.Gemini.APIKey == "" {
			messages = append(messages, "GEMINI_API_KEY environment variable is required for the gemini provider")
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	result := "invalid configuration:"
	for _, message := range e.Messages {
		result += "\n  - " + message
	}
	return result
}
