package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fixspelling/fixspell/internal/svcctx"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// withRequestID tags the request with the caller's X-Request-ID, or a new
// UUID when none was sent, and echoes it on the response.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(svcctx.WithRequestID(r.Context(), id)))
	})
}

// withLogging writes one access log line per request. Aborted streams are
// logged before the abort propagates to net/http.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", svcctx.RequestIDFrom(r.Context()),
				"status", rec.Status(),
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					s.logger.Warn("request aborted", attrs...)
				} else {
					s.logger.Error("handler panic", append(attrs, "panic", fmt.Sprint(p))...)
				}
				panic(p)
			}
			if r.URL.Path == "/health" {
				s.logger.Debug("request", attrs...)
				return
			}
			s.logger.Info("request", attrs...)
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder captures the status code and byte count of a response.
// It keeps Flush and Unwrap reachable so streaming handlers still work
// through http.NewResponseController.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Status returns the response status, 200 if the handler wrote nothing.
func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijack not supported")
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
