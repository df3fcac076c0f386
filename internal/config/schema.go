package config

import (
	"time"
)

// Config holds fixspell configuration.
// Stored at: ./config.yaml or ~/.fixspell/config.yaml
type Config struct {
	Server     ServerCfg              `mapstructure:"server" yaml:"server"`
	Providers  map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Correction CorrectionCfg          `mapstructure:"correction" yaml:"correction"`
	Log        LogCfg                 `mapstructure:"log" yaml:"log"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               string `mapstructure:"port" yaml:"port"`
	ReadTimeoutSeconds int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	IdleTimeoutSeconds int    `mapstructure:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
	MaxBodyBytes       int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"` // Request bodies above this are rejected
}

// ProviderCfg configures an upstream model provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`         // "openai", "mock"
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"` // Optional OpenAI-compatible endpoint
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// CorrectionCfg holds the request policy and the provider used to serve it.
type CorrectionCfg struct {
	Provider       string   `mapstructure:"provider" yaml:"provider"`
	MaxTextLength  int      `mapstructure:"max_text_length" yaml:"max_text_length"` // In characters
	Models         []string `mapstructure:"models" yaml:"models"`
	DefaultModel   string   `mapstructure:"default_model" yaml:"default_model"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // 0 = no per-request timeout
}

// LogCfg configures the server logger.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:               "127.0.0.1",
			Port:               "8080",
			ReadTimeoutSeconds: 15,
			IdleTimeoutSeconds: 60,
			MaxBodyBytes:       64 << 10,
		},
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:           "openai",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"mock": {
				Type:    "mock",
				Enabled: false,
			},
		},
		Correction: CorrectionCfg{
			Provider:       "openai",
			MaxTextLength:  2000,
			Models:         []string{"gpt-5", "gpt-5-mini", "gpt-5-nano"},
			DefaultModel:   "gpt-5",
			TimeoutSeconds: 120,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
