package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var req analysis.Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Code != "x = 1" {
			t.Errorf("code = %q", req.Code)
		}
		w.Write([]byte(`{"analysis":"Looks fine.","score":77,"suggestions":["a",{"title":"b","details":"c"}]}`))
	}))
	defer server.Close()

	res, err := New(server.URL+"/", "k", 5*time.Second).Analyze(context.Background(), "x = 1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.AnalysisText != "Looks fine." || res.Score == nil || *res.Score != 77 {
		t.Fatalf("res = %+v", res)
	}
	if len(res.Suggestions) != 2 || res.Suggestions[1].Kind != analysis.SuggestionStructured {
		t.Fatalf("suggestions = %+v", res.Suggestions)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No code provided"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "", time.Second).Analyze(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.UserMessage() != "No code provided" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, "", time.Second).Analyze(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad gateway" {
		t.Fatalf("err = %v", err)
	}
}

func TestReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "Mine" || body["analysis"] != "ok" || body["score"] != float64(90) {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="code-analysis-20261019-093000.pdf"`)
		w.Header().Set("X-Report-URL", "http://minio/r.pdf")
		w.Write([]byte("%PDF-1.3"))
	}))
	defer server.Close()

	res := &analysis.Result{AnalysisText: "ok", Score: analysis.ScoreOf(90)}
	rep, err := New(server.URL, "", time.Second).Report(context.Background(), res, "Mine")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if string(rep.Data) != "%PDF-1.3" || rep.FileName != "code-analysis-20261019-093000.pdf" || rep.URL != "http://minio/r.pdf" {
		t.Fatalf("rep = %+v", rep)
	}
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, h, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if h.Filename != "main.go.txt" {
			t.Errorf("filename = %q", h.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"code": string(data)})
	}))
	defer server.Close()

	code, err := New(server.URL, "", time.Second).Upload(context.Background(), "main.go.txt", strings.NewReader("package main"))
	if err != nil || code != "package main" {
		t.Fatalf("Upload = %q, %v", code, err)
	}
}
