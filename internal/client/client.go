// Package client speaks the OptiCode HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

// APIError is a non-2xx answer carrying the server's {"error": msg}.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// UserMessage is the server text, already safe for display.
func (e *APIError) UserMessage() string { return e.Message }

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Analyze posts code to /api/analyze.
func (c *Client) Analyze(ctx context.Context, code string) (analysis.Result, error) {
	payload, err := json.Marshal(analysis.Request{Code: code})
	if err != nil {
		return analysis.Result{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/analyze", "application/json", bytes.NewReader(payload))
	if err != nil {
		return analysis.Result{}, err
	}
	defer resp.Body.Close()

	var res analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return analysis.Result{}, fmt.Errorf("decoding analysis: %w", err)
	}
	return res, nil
}

// Report is a PDF returned by /api/report.
type Report struct {
	Data     []byte
	FileName string
	URL      string
}

// Report asks the server to render res. title may be empty.
func (c *Client) Report(ctx context.Context, res *analysis.Result, title string) (*Report, error) {
	payload, err := json.Marshal(struct {
		Title string `json:"title,omitempty"`
		*analysis.Result
	}{Title: title, Result: res})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/report", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return &Report{
		Data:     data,
		FileName: fileNameFrom(resp.Header.Get("Content-Disposition")),
		URL:      resp.Header.Get("X-Report-URL"),
	}, nil
}

// Upload sends a source file to /api/upload and returns its text.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, io.LimitReader(r, analysis.MaxUploadBytes+1)); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding upload: %w", err)
	}
	return out.Code, nil
}

// do sends the request and turns non-2xx answers into *APIError. On success
// the caller owns resp.Body.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(raw))
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Message: e.Error}
}

func fileNameFrom(disposition string) string {
	const marker = "filename="
	i := strings.Index(disposition, marker)
	if i < 0 {
		return ""
	}
	return strings.Trim(disposition[i+len(marker):], `"; `)
}
