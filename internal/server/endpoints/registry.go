package endpoints

import (
	"github.com/fixspelling/fixspell/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// HomeDir returns the client home directory used by CLI commands.
	HomeDir func() string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Correction
		&FixEndpoint{HomeDir: cfg.HomeDir},
		&ModelsEndpoint{},
		&PromptEndpoint{},

		// Metrics
		&MetricsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Browser page
		&StaticEndpoint{},
	}
}
