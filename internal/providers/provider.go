// Package providers holds the upstream model clients used to produce
// corrections and the registry that builds them from configuration.
package providers

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no usable client is registered.
var ErrUnavailable = errors.New("provider unavailable")

// LLMClient streams completions from a hosted text-generation model.
type LLMClient interface {
	// Name returns the client identifier (e.g., "openai").
	Name() string

	// Stream starts a completion. Errors the upstream reports before any
	// output is produced are returned here; later failures surface from
	// the Stream.
	Stream(ctx context.Context, req *StreamRequest) (Stream, error)
}

// Stream iterates the text deltas of a single completion, in order.
// It is one-shot and not safe for concurrent use.
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// HealthChecker is implemented by clients that can probe their upstream.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StreamRequest is a single-turn completion request.
type StreamRequest struct {
	Model  string
	Prompt string

	// Output constrains the completion to a JSON schema when set.
	Output *StructuredOutput

	RequestID string
}

// StructuredOutput is a named JSON schema the completion must follow.
type StructuredOutput struct {
	Name        string
	Description string
	Schema      map[string]any
	Strict      bool
}

// APIError is an error reported by an upstream API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}
