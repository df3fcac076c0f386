package providers

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

var quietLogger = slog.New(slog.DiscardHandler)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		r.SetLogger(quietLogger)
		mock := NewMockClient()

		r.Register("test-llm", mock)

		client, err := r.Get("test-llm")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if client != mock {
			t.Error("got different client than registered")
		}
	})

	t.Run("get nonexistent", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Get("nonexistent")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.SetLogger(quietLogger)
		r.Register("zeta", NewMockClient())
		r.Register("alpha", NewMockClient())

		got := r.List()
		if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
			t.Errorf("List() = %v, want [alpha zeta]", got)
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewRegistry()
		r.SetLogger(quietLogger)
		r.Register("mock", NewMockClient())
		r.Unregister("mock")

		if r.Has("mock") {
			t.Error("Has() = true after Unregister")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()
		r.SetLogger(quietLogger)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Register("concurrent-llm", NewMockClient())
			}()
			go func() {
				defer wg.Done()
				r.Get("concurrent-llm") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("registers providers from config", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "test-key", Enabled: true},
				"local":  {Type: "mock", Enabled: true},
			},
		}, quietLogger)

		client, err := r.Get("openai")
		if err != nil {
			t.Fatalf("Get(openai) error = %v", err)
		}
		if _, ok := client.(*OpenAIClient); !ok {
			t.Errorf("expected *OpenAIClient, got %T", client)
		}

		client, err = r.Get("local")
		if err != nil {
			t.Fatalf("Get(local) error = %v", err)
		}
		if _, ok := client.(*MockClient); !ok {
			t.Errorf("expected *MockClient, got %T", client)
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "test-key", Enabled: false},
			},
		}, quietLogger)

		if r.Has("openai") {
			t.Error("disabled provider should not be registered")
		}
	})

	t.Run("skips providers without API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", Enabled: true},
			},
		}, quietLogger)

		if r.Has("openai") {
			t.Error("provider without API key should not be registered")
		}
	})

	t.Run("skips unknown types", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"other": {Type: "carrier-pigeon", APIKey: "k", Enabled: true},
			},
		}, quietLogger)

		if len(r.List()) != 0 {
			t.Errorf("expected no providers, got %v", r.List())
		}
	})
}

func TestRegistryReload(t *testing.T) {
	t.Run("adds new providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{}, quietLogger)

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"local": {Type: "mock", Enabled: true},
			},
		})

		if !r.Has("local") {
			t.Error("provider should be registered after reload")
		}
	})

	t.Run("removes providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "key", Enabled: true},
				"local":  {Type: "mock", Enabled: true},
			},
		}, quietLogger)

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"local": {Type: "mock", Enabled: true},
			},
		})

		if r.Has("openai") {
			t.Error("openai should be removed after reload")
		}
		if !r.Has("local") {
			t.Error("local should be kept after reload")
		}
	})

	t.Run("updates providers with changed settings", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "old-key", Enabled: true},
			},
		}, quietLogger)
		old, _ := r.Get("openai")

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "new-key", BaseURL: "http://localhost:9999", Enabled: true},
			},
		})

		client, _ := r.Get("openai")
		if client == old {
			t.Fatal("client should be replaced when config changes")
		}
		c := client.(*OpenAIClient)
		if c.apiKey != "new-key" || c.baseURL != "http://localhost:9999" {
			t.Errorf("unexpected client settings: key=%s base=%s", c.apiKey, c.baseURL)
		}
	})

	t.Run("replaces client when type changes", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"default": {Type: "mock", Enabled: true},
			},
		}, quietLogger)

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"default": {Type: "openai", APIKey: "key", Enabled: true},
			},
		})

		client, _ := r.Get("default")
		if _, ok := client.(*OpenAIClient); !ok {
			t.Errorf("expected *OpenAIClient after type change, got %T", client)
		}
	})

	t.Run("keeps providers with unchanged config", func(t *testing.T) {
		cfg := RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "same-key", Timeout: 30 * time.Second, Enabled: true},
			},
		}
		r := NewRegistryFromConfig(cfg, quietLogger)
		client1, _ := r.Get("openai")

		r.Reload(cfg)
		client2, _ := r.Get("openai")

		if client1 != client2 {
			t.Error("client should not be replaced when config unchanged")
		}
	})

	t.Run("default timeout counts as unchanged", func(t *testing.T) {
		cfg := RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "same-key", Enabled: true},
			},
		}
		r := NewRegistryFromConfig(cfg, quietLogger)
		client1, _ := r.Get("openai")

		r.Reload(cfg)
		client2, _ := r.Get("openai")

		if client1 != client2 {
			t.Error("client should not be replaced when timeout is left at default")
		}
	})

	t.Run("concurrent reload is safe", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: "openai", APIKey: "key", Enabled: true},
			},
		}, quietLogger)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				r.Reload(RegistryConfig{
					Providers: map[string]ProviderConfig{
						"openai": {Type: "openai", APIKey: "key-" + string(rune('a'+n)), Enabled: true},
					},
				})
			}(i)
			go func() {
				defer wg.Done()
				r.Get("openai") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}
