package analysis

import "errors"

var (
	// ErrEmptyInput: code was blank; caught before any provider call.
	ErrEmptyInput = errors.New("no code provided")

	// ErrConfiguration: the provider credential is not configured.
	ErrConfiguration = errors.New("analysis provider is not configured")

	// ErrAnalysisFailed is the only provider failure that reaches callers.
	ErrAnalysisFailed = errors.New("failed to analyze the code")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrProviderAuth indicates the provider rejected the credential.
	ErrProviderAuth = errors.New("ai provider rejected credential")

	// ErrMalformedResponse indicates the provider answered without usable text.
	ErrMalformedResponse = errors.New("ai provider returned malformed response")
)

// ConfigError carries the operator-facing message for a missing credential.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrConfiguration) match any ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// MissingCredential builds the ConfigError for an unset environment variable.
func MissingCredential(envVar string) error {
	return &ConfigError{Message: envVar + " is missing in environment variables."}
}
