package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

type rateLimitError struct {
	body string
}

func (e *rateLimitError) Error() string { return "rate limited: " + e.body }

func (e *rateLimitError) Unwrap() error { return analysis.ErrQuotaExceeded }

type authError struct {
	message string
}

func (e *authError) Error() string { return "authentication error: " + e.message }

func (e *authError) Unwrap() error { return analysis.ErrProviderAuth }

// retryWithBackoff retries fn on rate-limit errors only, doubling the wait
// each attempt.
func retryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var rl *rateLimitError
		if !errors.As(lastErr, &rl) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := base * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
