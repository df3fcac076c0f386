// Package fixer runs a validated correction request against a model
// provider and exposes the upstream output as a one-shot chunk stream.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/metrics"
	"github.com/fixspelling/fixspell/internal/prompts/correct"
	"github.com/fixspelling/fixspell/internal/providers"
)

// ErrTimeout is returned when a session exceeds the per-request timeout.
var ErrTimeout = errors.New("correction timed out")

// Config configures a Pipeline.
type Config struct {
	// Timeout bounds a whole session, from request to last chunk. Zero disables it.
	Timeout time.Duration
	Logger  *slog.Logger
	// Metrics records one entry per session when set.
	Metrics *metrics.Recorder
}

// Pipeline starts correction sessions. It holds no per-request state.
type Pipeline struct {
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{timeout: cfg.Timeout, logger: logger, metrics: cfg.Metrics}
}

// Timeout returns the per-session timeout.
func (p *Pipeline) Timeout() time.Duration {
	return p.timeout
}

// Start opens an upstream stream for req. An error here means nothing was
// produced; the caller can still report it as a complete response.
func (p *Pipeline) Start(ctx context.Context, client providers.LLMClient, req *correction.Request, requestID string) (*Session, error) {
	if client == nil {
		return nil, providers.ErrUnavailable
	}
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	prompt, err := correct.UserPrompt(req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	var cancel context.CancelFunc
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	logger := p.logger.With(
		"request_id", requestID,
		"provider", client.Name(),
		"model", req.Model,
	)
	start := time.Now()
	metric := metrics.Metric{
		RequestID: requestID,
		Provider:  client.Name(),
		Model:     req.Model,
		TextChars: len([]rune(req.Text)),
	}

	stream, err := client.Stream(ctx, &providers.StreamRequest{
		Model:  req.Model,
		Prompt: prompt,
		Output: &providers.StructuredOutput{
			Name:        correct.SchemaName,
			Description: correct.SchemaDescription,
			Schema:      correct.ResultSchema(),
			Strict:      true,
		},
		RequestID: requestID,
	})
	if err != nil {
		err = p.wrap(ctx, err)
		cancel()
		logger.Warn("correction stream failed to start", "error", err)
		p.record(metric, start, time.Time{}, err)
		return nil, err
	}

	logger.Debug("correction stream started",
		"prompt_key", correct.UserPromptKey,
		"prompt_hash", correct.Prompt().Hash,
		"text_chars", metric.TextChars,
	)

	return &Session{
		pipeline: p,
		ctx:      ctx,
		cancel:   cancel,
		stream:   stream,
		logger:   logger,
		start:    start,
		metric:   metric,
	}, nil
}

// record stores the outcome of a session. firstChunk is zero when nothing arrived.
func (p *Pipeline) record(m metrics.Metric, start, firstChunk time.Time, err error) {
	if p.metrics == nil {
		return
	}
	m.TotalSeconds = time.Since(start).Seconds()
	if !firstChunk.IsZero() {
		m.FirstChunkSeconds = firstChunk.Sub(start).Seconds()
	}
	m.Success = err == nil
	m.ErrorType = errorType(err)
	p.metrics.Record(m)
}

// errorType classifies a session error for metrics.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return metrics.ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return metrics.ErrorTypeCanceled
	case errors.Is(err, correction.ErrNonConforming):
		return metrics.ErrorTypeNonConforming
	default:
		return metrics.ErrorTypeUpstream
	}
}

func (p *Pipeline) wrap(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, p.timeout, err)
	}
	return err
}

// Session is a single correction in flight. Chunks are yielded in upstream
// order; once Next returns false the session is finished and cannot be
// restarted. Not safe for concurrent use.
type Session struct {
	pipeline *Pipeline
	ctx      context.Context
	cancel   context.CancelFunc
	stream   providers.Stream
	logger   *slog.Logger
	start    time.Time
	metric   metrics.Metric
	first    time.Time

	out     strings.Builder
	chunks  int
	current string
	result  *correction.Result
	err     error
	done    bool
	closed  bool
}

// Next advances to the next chunk. At end of stream the accumulated output
// is checked against the result schema.
func (s *Session) Next() bool {
	if s.done {
		return false
	}
	if s.stream.Next() {
		s.current = s.stream.Current()
		if s.chunks == 0 {
			s.first = time.Now()
		}
		s.out.WriteString(s.current)
		s.chunks++
		return true
	}

	s.done = true
	if err := s.stream.Err(); err != nil {
		s.err = s.pipeline.wrap(s.ctx, err)
	} else if res, err := correction.DecodeResult([]byte(s.out.String())); err != nil {
		s.err = err
	} else {
		s.result = &res
	}
	s.finish()
	return false
}

// Chunk returns the chunk read by the last call to Next.
func (s *Session) Chunk() string { return s.current }

// Err returns the error that ended the session, if any.
func (s *Session) Err() error { return s.err }

// Output returns everything received so far.
func (s *Session) Output() string { return s.out.String() }

// Result returns the decoded result once the session completed successfully.
func (s *Session) Result() (correction.Result, bool) {
	if s.result == nil {
		return correction.Result{}, false
	}
	return *s.result, true
}

// Collect drains the session and returns the final result.
func (s *Session) Collect() (correction.Result, error) {
	for s.Next() {
	}
	if s.err != nil {
		return correction.Result{}, s.err
	}
	res, _ := s.Result()
	return res, nil
}

// Close releases the upstream stream. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if !s.done {
		s.done = true
		s.err = context.Canceled
		s.logger.Info("correction abandoned", "chunks", s.chunks, "elapsed_ms", time.Since(s.start).Milliseconds())
		s.recordMetric()
	}
	return s.close()
}

func (s *Session) finish() {
	elapsed := time.Since(s.start).Milliseconds()
	if s.err != nil {
		s.logger.Warn("correction failed", "error", s.err, "chunks", s.chunks, "bytes", s.out.Len(), "elapsed_ms", elapsed)
	} else {
		s.logger.Info("correction completed", "chunks", s.chunks, "bytes", s.out.Len(), "elapsed_ms", elapsed)
	}
	s.recordMetric()
	_ = s.close()
}

func (s *Session) recordMetric() {
	m := s.metric
	m.Chunks = s.chunks
	m.Bytes = s.out.Len()
	s.pipeline.record(m, s.start, s.first, s.err)
}

func (s *Session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return s.stream.Close()
}
