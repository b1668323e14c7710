package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestErrorWritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	Error("analysis.failed", map[string]any{
		"failure": "timeout",
		"err":     errors.New("deadline exceeded"),
		"level":   "ignored",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "analysis.failed" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["level"] != "error" {
		t.Fatalf("level should not be overridable by fields, got %v", entry["level"])
	}
	if entry["err"] != "deadline exceeded" {
		t.Fatalf("err field = %v", entry["err"])
	}
	if entry["ts"] == "" || entry["ts"] == nil {
		t.Fatal("expected ts")
	}
}
