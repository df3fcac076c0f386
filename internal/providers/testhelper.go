package providers

import (
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// Live tests use it to skip when no credentials are present.
type TestConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
}

// LoadTestConfig loads provider settings from environment variables.
func LoadTestConfig() TestConfig {
	model := os.Getenv("FIXSPELL_TEST_MODEL")
	if model == "" {
		model = "gpt-5-nano"
	}
	return TestConfig{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:         model,
	}
}

// HasOpenAI returns true if an OpenAI API key is configured.
func (c TestConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// NewOpenAIClient creates an OpenAI client from test config.
// Returns nil if not configured.
func (c TestConfig) NewOpenAIClient() *OpenAIClient {
	if !c.HasOpenAI() {
		return nil
	}
	return NewOpenAIClient(OpenAIConfig{
		APIKey:  c.OpenAIAPIKey,
		BaseURL: c.OpenAIBaseURL,
	})
}
