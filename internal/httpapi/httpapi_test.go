package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nlsearch/answerd/internal/app"
)

type fakePipeline struct {
	answer  string
	sources []app.SlimSource
	err     error
	gotK    int
}

func (f *fakePipeline) Answer(_ context.Context, _ string, k int) (string, []app.SlimSource, error) {
	f.gotK = k
	return f.answer, f.sources, f.err
}

func newMux(p Answerer) *http.ServeMux {
	mux := http.NewServeMux()
	(&Handler{Pipeline: p}).RegisterRoutes(mux)
	return mux
}

func postSearch(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSearch_SuccessPayloadShape(t *testing.T) {
	p := &fakePipeline{
		answer: "The answer [1].",
		sources: []app.SlimSource{
			{Title: "Wikipedia", Link: "https://en.wikipedia.org/w"},
		},
	}
	rec := postSearch(t, newMux(p), `{"query":"seven wonders","k":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if p.gotK != 3 {
		t.Fatalf("k not forwarded: %d", p.gotK)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	for _, key := range []string{"query", "answer", "sources"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("response missing %q: %s", key, rec.Body.String())
		}
	}
	// Slim sources must never leak extracted content.
	if strings.Contains(rec.Body.String(), "content") {
		t.Fatalf("response leaks content field: %s", rec.Body.String())
	}
}

func TestSearch_NoResultsIsClientError(t *testing.T) {
	p := &fakePipeline{err: app.ErrNoResults}
	rec := postSearch(t, newMux(p), `{"query":"nothing"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "detail") {
		t.Fatalf("expected detail message: %s", rec.Body.String())
	}
}

func TestSearch_LLMFaultIsBadGateway(t *testing.T) {
	p := &fakePipeline{err: &openai.APIError{HTTPStatusCode: 500, Message: "overloaded"}}
	rec := postSearch(t, newMux(p), `{"query":"q"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSearch_WrappedLLMFaultIsBadGateway(t *testing.T) {
	wrapped := errors.Join(errors.New("synthesis call"), &openai.APIError{Message: "x"})
	p := &fakePipeline{err: wrapped}
	rec := postSearch(t, newMux(p), `{"query":"q"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for wrapped provider error, got %d", rec.Code)
	}
}

func TestSearch_UnknownFailureIsServerError(t *testing.T) {
	p := &fakePipeline{err: errors.New("boom")}
	rec := postSearch(t, newMux(p), `{"query":"q"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSearch_RejectsBadInput(t *testing.T) {
	mux := newMux(&fakePipeline{answer: "x"})
	if rec := postSearch(t, mux, `{not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}
	if rec := postSearch(t, mux, `{"k":3}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query: expected 400, got %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /search: expected 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	mux := newMux(&fakePipeline{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body["ok"] {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestCORS_AllowedOriginAndPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"}, newMux(&fakePipeline{answer: "a"}))

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("missing allow-origin header: %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"q"}`))
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unlisted origin must not receive CORS headers")
	}
}
