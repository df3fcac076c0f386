package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const (
	MockClientName = "mock"

	// MockResponse is a schema-conforming correction result.
	MockResponse = `{"fixedText":"This is a mock correction.","explanation":"The mock provider returns a fixed response."}`
)

// MockClient is an LLMClient that streams a canned response in chunks.
type MockClient struct {
	// Configurable behavior
	Latency         time.Duration // Delay before each chunk
	ChunkSize       int           // Characters per chunk
	ShouldFail      bool          // Fail before the stream starts
	FailAfterChunks int           // Break the stream after N chunks (0 = never)
	ResponseText    string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[StreamRequest]
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      10 * time.Millisecond,
		ChunkSize:    8,
		ResponseText: MockResponse,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// HealthCheck fails when the client is configured to fail.
func (c *MockClient) HealthCheck(_ context.Context) error {
	if c.ShouldFail {
		return fmt.Errorf("mock client configured to fail")
	}
	return nil
}

// Stream starts a mock completion.
func (c *MockClient) Stream(ctx context.Context, req *StreamRequest) (Stream, error) {
	c.requestCount.Add(1)
	if req != nil {
		clone := *req
		c.lastRequest.Store(&clone)
	}

	if c.ShouldFail {
		return nil, &APIError{Provider: MockClientName, StatusCode: 500, Message: "mock client configured to fail"}
	}

	return &mockStream{
		ctx:       ctx,
		chunks:    splitChunks(c.ResponseText, c.ChunkSize),
		latency:   c.Latency,
		failAfter: c.FailAfterChunks,
	}, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *StreamRequest {
	return c.lastRequest.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.lastRequest.Store(nil)
}

// splitChunks splits text into chunks of size characters, never inside a rune.
func splitChunks(text string, size int) []string {
	if size <= 0 {
		size = len(text)
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := min(size, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

type mockStream struct {
	ctx       context.Context
	chunks    []string
	latency   time.Duration
	failAfter int

	idx     int
	current string
	err     error
}

func (s *mockStream) Next() bool {
	if s.err != nil || s.idx >= len(s.chunks) {
		return false
	}
	if s.failAfter > 0 && s.idx >= s.failAfter {
		s.err = fmt.Errorf("mock stream failed after %d chunks", s.failAfter)
		return false
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-s.ctx.Done():
			s.err = s.ctx.Err()
			return false
		}
	} else if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}

	s.current = s.chunks[s.idx]
	s.idx++
	return true
}

func (s *mockStream) Current() string { return s.current }
func (s *mockStream) Err() error      { return s.err }
func (s *mockStream) Close() error    { return nil }

// Verify interface
var _ LLMClient = (*MockClient)(nil)
var _ HealthChecker = (*MockClient)(nil)
