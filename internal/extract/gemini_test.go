package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeGemini(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiProvider(srv.URL, "gemini-2.5-flash", srv.Client())
}

func candidateResponse(texts ...string) string {
	parts := make([]geminiPart, len(texts))
	for i, txt := range texts {
		parts[i] = geminiPart{Text: txt}
	}
	body := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": parts}},
		},
	}
	out, _ := json.Marshal(body)
	return string(out)
}

func TestGeminiComplete_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest
	p := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(candidateResponse(`{"summary":`, `"ok"}`))); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	got, err := p.Complete(context.Background(), "test-key", "the prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Errorf("response = %q", got)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 ||
		gotReq.Contents[0].Parts[0].Text != "the prompt" {
		t.Errorf("request body = %+v", gotReq)
	}
}

func TestGeminiComplete_APIErrorSurfacesStatusAndMessage(t *testing.T) {
	p := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		body := `{"error":{"code":429,"message":"You exceeded your current quota","status":"RESOURCE_EXHAUSTED"}}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	_, err := p.Complete(context.Background(), "key", "prompt")
	if err == nil {
		t.Fatal("expected error on HTTP 429")
	}
	for _, want := range []string{"429", "RESOURCE_EXHAUSTED", "quota"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestGeminiComplete_InvalidKeyStatus(t *testing.T) {
	p := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		body := `{"error":{"code":400,"message":"API key not valid","status":"API_KEY_INVALID"}}`
		w.Write([]byte(body))
	})

	_, err := p.Complete(context.Background(), "bad", "prompt")
	if err == nil {
		t.Fatal("expected error on HTTP 400")
	}
	if !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("error %q should carry the API status for classification", err.Error())
	}
}

func TestGeminiComplete_NonJSONErrorBody(t *testing.T) {
	p := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := p.Complete(context.Background(), "key", "prompt")
	if err == nil {
		t.Fatal("expected error on HTTP 502")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestGeminiComplete_NoCandidates(t *testing.T) {
	p := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := p.Complete(context.Background(), "key", "prompt"); err == nil {
		t.Fatal("expected error when response has no candidates")
	}
}

func TestNewGeminiProvider_DefaultBaseURL(t *testing.T) {
	p := NewGeminiProvider("", "gemini-2.5-flash", http.DefaultClient)
	if p.baseURL != DefaultGeminiBaseURL {
		t.Errorf("baseURL = %q", p.baseURL)
	}
}
