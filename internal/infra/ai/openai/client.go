package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 2048
)

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a chat-completions client. baseURL is optional and mostly
// used to point at a compatible gateway.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = DefaultModel
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) Generate(ctx context.Context, prompt string) (analysis.Generation, error) {
	model := c.Model
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// reasoning models (o1/o3/o4/gpt-5*) reject MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	gen := analysis.Generation{Model: model}
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return gen, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return gen, fmt.Errorf("%w: no choices in response", analysis.ErrMalformedResponse)
	}
	if resp.Model != "" {
		gen.Model = resp.Model
	}
	gen.Text = resp.Choices[0].Message.Content
	return gen, nil
}

func mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", analysis.ErrProviderAuth, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", analysis.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}
