package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIClientName     = "openai"
	openAIDefaultTimeout = 120 * time.Second
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string        // Optional, for OpenAI-compatible gateways and tests
	Timeout    time.Duration // HTTP timeout, covers the whole stream
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient streams chat completions using the official OpenAI SDK.
// The SDK is configured never to retry.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = openAIDefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		client:  openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIClientName
}

// HealthCheck verifies the OpenAI API is reachable and the API key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	if page == nil {
		return fmt.Errorf("openai models list returned nil response")
	}
	return nil
}

// Stream starts a streaming chat completion.
func (c *OpenAIClient) Stream(ctx context.Context, req *StreamRequest) (Stream, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if out := req.Output; out != nil {
		schema := shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   out.Name,
			Schema: out.Schema,
			Strict: openai.Bool(out.Strict),
		}
		if out.Description != "" {
			schema.Description = openai.String(out.Description)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{JSONSchema: schema},
		}
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, mapOpenAIError(err)
	}
	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	current string
	pending error
	err     error
}

func (s *openAIStream) Next() bool {
	if s.err != nil {
		return false
	}
	if s.pending != nil {
		s.err, s.pending = s.pending, nil
		return false
	}

	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]

		if choice.Delta.Refusal != "" {
			s.err = fmt.Errorf("model refused: %s", choice.Delta.Refusal)
			return false
		}
		finishErr := finishReasonError(choice.FinishReason)
		if choice.Delta.Content == "" {
			if finishErr != nil {
				s.err = finishErr
				return false
			}
			continue
		}

		s.current = choice.Delta.Content
		s.pending = finishErr
		return true
	}

	if err := s.stream.Err(); err != nil {
		s.err = mapOpenAIError(err)
	}
	return false
}

func (s *openAIStream) Current() string { return s.current }
func (s *openAIStream) Err() error      { return s.err }
func (s *openAIStream) Close() error    { return s.stream.Close() }

// finishReasonError reports finish reasons that mean the output was cut short.
func finishReasonError(reason string) error {
	switch reason {
	case "length":
		return fmt.Errorf("completion truncated: finish_reason=length")
	case "content_filter":
		return fmt.Errorf("completion blocked: finish_reason=content_filter")
	default:
		return nil
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   OpenAIClientName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}
	return err
}

var _ LLMClient = (*OpenAIClient)(nil)
var _ HealthChecker = (*OpenAIClient)(nil)
