// Package ai selects the text-generation provider from configuration.
package ai

import (
	"fmt"
	"time"

	"github.com/bryanwahyu/opticode/internal/config"
	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/infra/ai/gemini"
	"github.com/bryanwahyu/opticode/internal/infra/ai/openai"
)

// New returns the configured generator. When the credential is missing the
// generator is nil and the returned error is a ConfigError naming the
// environment variable; callers keep serving and report it per request.
func New(cfg *config.Config) (analysis.Generator, error) {
	if cfg.AI.APIKey == "" {
		return nil, analysis.MissingCredential(cfg.CredentialEnv())
	}
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, timeout), nil
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, timeout), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}
