// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/fixer"
	"github.com/fixspelling/fixspell/internal/metrics"
	"github.com/fixspelling/fixspell/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
// A Services value is never mutated; config reloads swap in a new one.
type Services struct {
	Registry  *providers.Registry
	Validator *correction.Validator
	Pipeline  *fixer.Pipeline
	Metrics   *metrics.Recorder
	Logger    *slog.Logger

	// Provider names the registry entry used for corrections.
	Provider string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	StartedAt  time.Time
	ConfigFile string
}

type servicesKey struct{}

type requestIDKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// ValidatorFrom extracts the request validator from context.
func ValidatorFrom(ctx context.Context) *correction.Validator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Validator
	}
	return nil
}

// PipelineFrom extracts the correction pipeline from context.
func PipelineFrom(ctx context.Context) *fixer.Pipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// MetricsFrom extracts the metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// LoggerFrom extracts the logger from context, tagged with the request ID
// when one is present. Never returns nil.
func LoggerFrom(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		logger = s.Logger
	}
	if id := RequestIDFrom(ctx); id != "" {
		logger = logger.With("request_id", id)
	}
	return logger
}

// CorrectionClientFrom returns the client that serves corrections.
// It returns an error wrapping providers.ErrUnavailable when none is registered.
func CorrectionClientFrom(ctx context.Context) (providers.LLMClient, error) {
	s := ServicesFrom(ctx)
	if s == nil || s.Registry == nil {
		return nil, providers.ErrUnavailable
	}
	return s.Registry.Get(s.Provider)
}

// WithRequestID returns a new context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom extracts the request ID from context.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
