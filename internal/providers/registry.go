package providers

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Registry holds named LLM clients.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]LLMClient
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a client by name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// Unregister removes a client by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// Get returns a client by name. A missing client is ErrUnavailable.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not configured", ErrUnavailable, name)
	}
	return client, nil
}

// Has checks if a client is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// List returns all registered client names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig matches config.ProviderCfg with a resolved API key.
type ProviderConfig struct {
	Type    string // "openai", "mock"
	APIKey  string // Resolved API key
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers that can be built are registered.
func NewRegistryFromConfig(cfg RegistryConfig, logger *slog.Logger) *Registry {
	r := NewRegistry()
	if logger != nil {
		r.logger = logger
	}
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled {
			continue
		}
		if provCfg.Type == OpenAIClientName && provCfg.APIKey == "" {
			if r.logger != nil {
				r.logger.Warn("skipping provider without API key", "name", name, "type", provCfg.Type)
			}
			continue
		}

		existing, hasExisting := r.clients[name]
		if hasExisting && !needsUpdate(existing, provCfg) {
			want[name] = true
			continue
		}

		client := createClient(provCfg)
		if client == nil {
			if r.logger != nil {
				r.logger.Warn("unknown provider type", "name", name, "type", provCfg.Type)
			}
			continue
		}
		want[name] = true
		r.clients[name] = client
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove providers that are no longer configured
	for name := range r.clients {
		if !want[name] {
			delete(r.clients, name)
			if r.logger != nil {
				r.logger.Info("unregistered LLM client", "name", name)
			}
		}
	}
}

// createClient creates an LLM client based on provider type.
func createClient(cfg ProviderConfig) LLMClient {
	switch cfg.Type {
	case OpenAIClientName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case MockClientName:
		return NewMockClient()
	default:
		return nil
	}
}

// needsUpdate checks if a client needs to be recreated.
func needsUpdate(client LLMClient, cfg ProviderConfig) bool {
	switch c := client.(type) {
	case *OpenAIClient:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = openAIDefaultTimeout
		}
		return cfg.Type != OpenAIClientName ||
			c.apiKey != cfg.APIKey ||
			c.baseURL != cfg.BaseURL ||
			c.timeout != timeout
	case *MockClient:
		return cfg.Type != MockClientName
	default:
		return true
	}
}
