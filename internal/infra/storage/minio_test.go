package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeS3 answers the two calls the store makes: HEAD bucket and PUT object.
type fakeS3 struct {
	mu          sync.Mutex
	objects     map[string][]byte
	contentType map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.contentType[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestStorePut(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	endpoint := strings.TrimPrefix(server.URL, "http://")
	ctx := context.Background()
	store, err := New(ctx, endpoint, "us-east-1", "reports", "access", "secret", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := store.Put(ctx, "reports/2026/10/19/a.pdf", []byte("%PDF-1.3"), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if want := "http://" + endpoint + "/reports/reports/2026/10/19/a.pdf"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	got, ok := fake.objects["/reports/reports/2026/10/19/a.pdf"]
	if !ok {
		t.Fatalf("object not stored; have %v", fake.objects)
	}
	// plain-http uploads arrive aws-chunked, so look for the payload inside
	if !strings.Contains(string(got), "%PDF-1.3") {
		t.Errorf("body = %q", got)
	}
	if ct := fake.contentType["/reports/reports/2026/10/19/a.pdf"]; ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
}
