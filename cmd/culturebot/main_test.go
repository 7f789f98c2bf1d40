package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	culturebot "github.com/AGC-Technical-Team/CultureBot"
	"github.com/AGC-Technical-Team/CultureBot/internal/cache"
	"github.com/AGC-Technical-Team/CultureBot/providers"
)

type stubProvider struct {
	answer string
	err    error
	calls  int
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }
func (s *stubProvider) Generate(_ context.Context, _ string) (*providers.Answer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &providers.Answer{Text: s.answer, Model: "stub-model", Provider: "stub"}, nil
}

func testRouter(p providers.Provider) http.Handler {
	bot := culturebot.NewBot(p, cache.NewMemory(10), nil)
	return newRouter(bot, nil)
}

func TestRootEndpoint(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "CultureBot" {
		t.Errorf("body = %v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "CultureBot" {
		t.Errorf("body = %v", body)
	}
	if body["model"] != "stub-model" {
		t.Errorf("model = %q", body["model"])
	}
	if body["version"] == "" {
		t.Error("health response missing version")
	}
}

func TestAskEndpoint(t *testing.T) {
	p := &stubProvider{answer: "This is a test answer about culture."}
	r := testRouter(p)

	req := httptest.NewRequest("POST", "/ask",
		strings.NewReader(`{"question": "What is the cultural significance of the Taj Mahal?"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body askResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Answer != p.answer {
		t.Errorf("answer = %q", body.Answer)
	}
}

func TestAskEndpointMissingQuestion(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})

	for _, payload := range []string{`{}`, `{"question": ""}`, `not json`} {
		req := httptest.NewRequest("POST", "/ask", strings.NewReader(payload))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, w.Code)
			continue
		}
		var body map[string]string
		_ = json.NewDecoder(w.Body).Decode(&body)
		if !strings.Contains(body["detail"], "Question is required") {
			t.Errorf("payload %q: detail = %q", payload, body["detail"])
		}
	}
}

func TestAskEndpointModelError(t *testing.T) {
	r := testRouter(&stubProvider{err: errors.New("test model error")})

	req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"question": "anything"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	if !strings.Contains(body["detail"], "Error generating answer") {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestAskEndpointServesCacheOnRepeat(t *testing.T) {
	p := &stubProvider{answer: "cached answer"}
	r := testRouter(p)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"question": "same question"}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("ask %d: status = %d", i, w.Code)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (cache should serve repeats)", p.calls)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUIEndpoint(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})
	req := httptest.NewRequest("GET", "/ui", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "CultureBot") {
		t.Error("ask page missing service name")
	}
}

func TestCORSPreflights(t *testing.T) {
	r := testRouter(&stubProvider{answer: "a"})
	req := httptest.NewRequest("OPTIONS", "/ask", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q, want *", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
