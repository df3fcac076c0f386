package svcctx

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fixspelling/fixspell/internal/providers"
)

func TestExtractorsWithoutServices(t *testing.T) {
	ctx := context.Background()

	if RegistryFrom(ctx) != nil || ValidatorFrom(ctx) != nil || PipelineFrom(ctx) != nil {
		t.Error("extractors should return nil without services")
	}
	if LoggerFrom(ctx) == nil {
		t.Error("LoggerFrom should fall back to the default logger")
	}
	if _, err := CorrectionClientFrom(ctx); !errors.Is(err, providers.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestCorrectionClientFrom(t *testing.T) {
	registry := providers.NewRegistry()
	registry.SetLogger(slog.New(slog.DiscardHandler))
	mock := providers.NewMockClient()
	registry.Register("local", mock)

	ctx := WithServices(context.Background(), &Services{Registry: registry, Provider: "local"})
	client, err := CorrectionClientFrom(ctx)
	if err != nil {
		t.Fatalf("CorrectionClientFrom() error = %v", err)
	}
	if client != mock {
		t.Error("got a different client than registered")
	}

	ctx = WithServices(context.Background(), &Services{Registry: registry, Provider: "missing"})
	if _, err := CorrectionClientFrom(ctx); !errors.Is(err, providers.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if RequestIDFrom(ctx) != "" {
		t.Error("expected empty request ID")
	}
	ctx = WithRequestID(ctx, "abc-123")
	if got := RequestIDFrom(ctx); got != "abc-123" {
		t.Errorf("expected abc-123, got %s", got)
	}
}
