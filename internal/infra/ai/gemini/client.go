// Package gemini talks to Google's generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-1.5-flash"

	maxRetries     = 3
	maxOutputToken = 4096
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	backoff time.Duration
}

// NewClient builds a client. An empty baseURL or model falls back to the
// public endpoint and DefaultModel.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		backoff: time.Second,
	}
}

func (c *Client) Model() string { return c.model }

// Generate sends prompt as a single user turn and concatenates the text parts
// of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (analysis.Generation, error) {
	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &genConfig{MaxOutputTokens: maxOutputToken},
	})
	if err != nil {
		return analysis.Generation{}, fmt.Errorf("marshaling request: %w", err)
	}

	gen := analysis.Generation{Model: c.model}
	err = retryWithBackoff(ctx, maxRetries, c.backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return &rateLimitError{body: string(body)}
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return &authError{message: string(body)}
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}

		var out generateResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("%w: parsing response: %v", analysis.ErrMalformedResponse, err)
		}
		if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("%w: no content in response", analysis.ErrMalformedResponse)
		}

		var sb strings.Builder
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		gen.Text = sb.String()
		return nil
	})
	if err != nil {
		return analysis.Generation{Model: c.model}, err
	}
	return gen, nil
}

type generateRequest struct {
	Contents         []content  `json:"contents"`
	GenerationConfig *genConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
