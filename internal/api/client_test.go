package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	var resp struct {
		Status string `json:"status"`
	}
	if err := NewClient(server.URL).Get(context.Background(), "/health", &resp); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok, got %s", resp.Status)
	}
}

func TestClientErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:      "Bad Request",
			Message:    "text: length must be <= 2000, but got 2001",
			StatusCode: http.StatusBadRequest,
		})
	}))
	defer server.Close()

	err := NewClient(server.URL).Post(context.Background(), "/api/fix", map[string]string{"text": "x"}, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Message, "length must be") {
		t.Errorf("unexpected message: %s", statusErr.Message)
	}
}

func TestClientPlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL).Get(context.Background(), "/", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Message != "upstream exploded" {
		t.Errorf("unexpected message: %q", statusErr.Message)
	}
}

func TestClientPostStream(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		var got map[string]string
		json.NewDecoder(r.Body).Decode(&got)
		received <- got
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{`{"fixedText":`, `"a","explanation":"b"}`} {
			io.WriteString(w, chunk)
			flusher.Flush()
		}
	}))
	defer server.Close()

	body, err := NewClient(server.URL).PostStream(context.Background(), "/api/fix", map[string]string{"text": "a"})
	if err != nil {
		t.Fatalf("PostStream() error = %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != `{"fixedText":"a","explanation":"b"}` {
		t.Errorf("unexpected body: %s", data)
	}
	if got := <-received; got["text"] != "a" {
		t.Errorf("server received %v", got)
	}
}

func TestOutputTo(t *testing.T) {
	data := map[string]string{"fixedText": "a"}

	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
		t.Fatalf("OutputTo(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"fixedText": "a"`) {
		t.Errorf("unexpected json: %s", buf.String())
	}

	buf.Reset()
	if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
		t.Fatalf("OutputTo(yaml) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "fixedText: a" {
		t.Errorf("unexpected yaml: %s", buf.String())
	}

	if err := SetOutputFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
