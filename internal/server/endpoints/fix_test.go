package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/fixer"
	"github.com/fixspelling/fixspell/internal/providers"
	"github.com/fixspelling/fixspell/internal/svcctx"
)

var testPolicy = correction.Policy{
	MaxTextLength: 2000,
	Models:        []string{"gpt-5", "gpt-5-mini", "gpt-5-nano"},
	DefaultModel:  "gpt-5",
}

func newTestMock() *providers.MockClient {
	m := providers.NewMockClient()
	m.Latency = 0
	return m
}

// testServices wires a services set around client. A nil client leaves the
// registry empty.
func testServices(t *testing.T, client providers.LLMClient) *svcctx.Services {
	t.Helper()
	v, err := correction.NewValidator(testPolicy)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	reg := providers.NewRegistry()
	if client != nil {
		reg.Register("mock", client)
	}
	return &svcctx.Services{
		Registry:     reg,
		Validator:    v,
		Pipeline:     fixer.New(fixer.Config{Timeout: 5 * time.Second}),
		Provider:     "mock",
		MaxBodyBytes: 64 << 10,
		StartedAt:    time.Now(),
	}
}

func serveEndpoint(ep interface {
	Route() (string, string, http.HandlerFunc)
}, s *svcctx.Services, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(svcctx.WithServices(req.Context(), s))
	rec := httptest.NewRecorder()
	_, _, h := ep.Route()
	h(rec, req)
	return rec
}

// serveAborting runs the handler and reports whether it aborted the response.
func serveAborting(ep *FixEndpoint, s *svcctx.Services, body string) (rec *httptest.ResponseRecorder, aborted bool) {
	defer func() {
		if p := recover(); p != nil {
			if p != http.ErrAbortHandler {
				panic(p)
			}
			aborted = true
		}
	}()
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/fix", strings.NewReader(body))
	req = req.WithContext(svcctx.WithServices(req.Context(), s))
	_, _, h := ep.Route()
	h(rec, req)
	return rec, false
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v (%q)", err, rec.Body.String())
	}
	if resp.Success {
		t.Errorf("success = true, want false")
	}
	if resp.StatusCode != rec.Code {
		t.Errorf("statusCode = %d, want %d", resp.StatusCode, rec.Code)
	}
	if resp.Error != http.StatusText(rec.Code) {
		t.Errorf("error = %q, want %q", resp.Error, http.StatusText(rec.Code))
	}
	return resp
}

func TestFix_StreamsResult(t *testing.T) {
	mock := newTestMock()
	mock.ChunkSize = 5
	s := testServices(t, mock)

	rec := serveEndpoint(&FixEndpoint{}, s, "POST", "/api/fix", `{"text":"i has a apple"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !rec.Flushed {
		t.Error("response was never flushed")
	}

	res, err := correction.DecodeResult(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("body does not decode as a result: %v", err)
	}
	if res.FixedText != "This is a mock correction." {
		t.Errorf("fixedText = %q", res.FixedText)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2 {
		t.Errorf("result has %d keys, want exactly fixedText and explanation", len(raw))
	}

	last := mock.LastRequest()
	if last == nil {
		t.Fatal("mock was not called")
	}
	if last.Model != "gpt-5" {
		t.Errorf("model = %q, want default gpt-5", last.Model)
	}
	if !strings.Contains(last.Prompt, `"""`+"\ni has a apple\n"+`"""`) {
		t.Errorf("prompt does not quote the text:\n%s", last.Prompt)
	}
	if last.Output == nil || !last.Output.Strict {
		t.Error("expected a strict structured output constraint")
	}
}

func TestFix_ModelSelection(t *testing.T) {
	mock := newTestMock()
	s := testServices(t, mock)

	rec := serveEndpoint(&FixEndpoint{}, s, "POST", "/api/fix", `{"text":"hello","model":"gpt-5-nano","extra":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := mock.LastRequest().Model; got != "gpt-5-nano" {
		t.Errorf("model = %q, want gpt-5-nano", got)
	}
}

func TestFix_EmptyTextAccepted(t *testing.T) {
	mock := newTestMock()
	rec := serveEndpoint(&FixEndpoint{}, testServices(t, mock), "POST", "/api/fix", `{"text":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestFix_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"oversize text", `{"text":"` + strings.Repeat("a", 2001) + `"}`, "text:"},
		{"missing text", `{"model":"gpt-5"}`, "text"},
		{"non-string text", `{"text":42}`, "text:"},
		{"unknown model", `{"text":"hi","model":"gpt-2"}`, "model:"},
		{"empty model", `{"text":"hi","model":""}`, "model:"},
		{"invalid json", `{"text":`, "invalid JSON body"},
		{"not an object", `["hi"]`, "body:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newTestMock()
			rec := serveEndpoint(&FixEndpoint{}, testServices(t, mock), "POST", "/api/fix", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if !strings.Contains(resp.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", resp.Message, tt.wantMsg)
			}
			if mock.RequestCount() != 0 {
				t.Error("rejected request reached the model")
			}
		})
	}
}

func TestFix_AtLengthLimit(t *testing.T) {
	mock := newTestMock()
	// 2000 multi-byte characters is within the limit.
	body := `{"text":"` + strings.Repeat("é", 2000) + `"}`
	rec := serveEndpoint(&FixEndpoint{}, testServices(t, mock), "POST", "/api/fix", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestFix_BodyTooLarge(t *testing.T) {
	mock := newTestMock()
	s := testServices(t, mock)
	s.MaxBodyBytes = 16

	rec := serveEndpoint(&FixEndpoint{}, s, "POST", "/api/fix", `{"text":"this body is longer than sixteen bytes"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeError(t, rec)
	if !strings.Contains(resp.Message, "exceeds 16 bytes") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestFix_NoProvider(t *testing.T) {
	rec := serveEndpoint(&FixEndpoint{}, testServices(t, nil), "POST", "/api/fix", `{"text":"hi"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	decodeError(t, rec)
}

func TestFix_ValidatesBeforeProviderLookup(t *testing.T) {
	body := `{"text":"` + strings.Repeat("a", testPolicy.MaxTextLength+1) + `"}`
	rec := serveEndpoint(&FixEndpoint{}, testServices(t, nil), "POST", "/api/fix", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("body = %+v", resp)
	}
}

func TestFix_UpstreamFailsBeforeFirstByte(t *testing.T) {
	mock := newTestMock()
	mock.ShouldFail = true

	rec := serveEndpoint(&FixEndpoint{}, testServices(t, mock), "POST", "/api/fix", `{"text":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	resp := decodeError(t, rec)
	if !strings.Contains(resp.Message, "configured to fail") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestFix_EmptyUpstreamOutput(t *testing.T) {
	mock := newTestMock()
	mock.ResponseText = ""

	rec := serveEndpoint(&FixEndpoint{}, testServices(t, mock), "POST", "/api/fix", `{"text":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	decodeError(t, rec)
}

func TestFix_MidStreamFailureAborts(t *testing.T) {
	mock := newTestMock()
	mock.ChunkSize = 4
	mock.FailAfterChunks = 3

	rec, aborted := serveAborting(&FixEndpoint{}, testServices(t, mock), `{"text":"hi"}`)
	if !aborted {
		t.Fatal("expected the handler to abort the response")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 already sent", rec.Code)
	}
	if got := rec.Body.String(); got != providers.MockResponse[:12] {
		t.Errorf("partial body = %q, want %q", got, providers.MockResponse[:12])
	}

	_, err := correction.NewSnapshotReader(rec.Body).Final()
	if !errors.Is(err, correction.ErrIncomplete) {
		t.Errorf("client sees %v, want ErrIncomplete", err)
	}
}

func TestFix_NonConformingOutputAborts(t *testing.T) {
	mock := newTestMock()
	mock.ResponseText = `{"fixedText":"ok"}`

	_, aborted := serveAborting(&FixEndpoint{}, testServices(t, mock), `{"text":"hi"}`)
	if !aborted {
		t.Fatal("expected non-conforming output to abort the response")
	}
}

func TestUpstreamStatus(t *testing.T) {
	if got := upstreamStatus(providers.ErrUnavailable); got != http.StatusServiceUnavailable {
		t.Errorf("ErrUnavailable -> %d", got)
	}
	if got := upstreamStatus(fixer.ErrTimeout); got != http.StatusBadGateway {
		t.Errorf("ErrTimeout -> %d", got)
	}
}
