package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

func newTestClient(url string) *Client {
	c := NewClient("test-key", "gemini-1.5-flash", url, 5*time.Second)
	c.backoff = time.Millisecond
	return c
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("missing API key in x-goog-api-key header")
		}
		if r.URL.Path != "/gemini-1.5-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "review this" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{Text: "Looks "}, {Text: "fine."}}}}},
		})
	}))
	defer server.Close()

	gen, err := newTestClient(server.URL).Generate(context.Background(), "review this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.Text != "Looks fine." {
		t.Errorf("Text = %q", gen.Text)
	}
	if gen.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q", gen.Model)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, analysis.ErrProviderAuth},
		{"forbidden", http.StatusForbidden, `{}`, analysis.ErrProviderAuth},
		{"quota", http.StatusTooManyRequests, `{}`, analysis.ErrQuotaExceeded},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, analysis.ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, analysis.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Generate(context.Background(), "x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateServerErrorIsUnclassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v", err)
	}
	for _, sentinel := range []error{analysis.ErrProviderAuth, analysis.ErrQuotaExceeded, analysis.ErrMalformedResponse} {
		if errors.Is(err, sentinel) {
			t.Errorf("500 should not match %v", sentinel)
		}
	}
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	gen, err := newTestClient(server.URL).Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.Text != "ok" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("text=%q calls=%d", gen.Text, calls)
	}
}

func TestGenerateDoesNotRetryAuth(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	newTestClient(server.URL).Generate(context.Background(), "x")
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("k", "", "", time.Second)
	if c.Model() != DefaultModel || c.baseURL != DefaultBaseURL {
		t.Fatalf("defaults = %q %q", c.Model(), c.baseURL)
	}
}
