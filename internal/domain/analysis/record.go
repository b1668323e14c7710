package analysis

import "time"

// RecordID identifier type
type RecordID string

// Status of a recorded analysis.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// FailureClass is the internal classification of a provider failure. It is
// never sent to HTTP callers.
type FailureClass string

const (
	FailureNone      FailureClass = ""
	FailureTimeout   FailureClass = "timeout"
	FailureAuth      FailureClass = "auth"
	FailureQuota     FailureClass = "quota"
	FailureMalformed FailureClass = "malformed"
	FailureUnknown   FailureClass = "unknown"
)

// Record is one analysis outcome kept for auditing.
type Record struct {
	ID        RecordID     `json:"id"`
	CodeHash  string       `json:"code_hash"`
	CodeBytes int          `json:"code_bytes"`
	Model     string       `json:"model,omitempty"`
	Status    Status       `json:"status"`
	Failure   FailureClass `json:"failure,omitempty"`
	Score     *int         `json:"score,omitempty"`
	Analysis  string       `json:"analysis,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
