package analysis

import "strings"

// Request is the payload accepted by the analysis endpoint.
type Request struct {
	Code string `json:"code"`
}

// Blank reports whether the submitted code is empty after trimming whitespace.
func (r Request) Blank() bool {
	return strings.TrimSpace(r.Code) == ""
}

// Result is produced once per analysis and never mutated afterwards.
type Result struct {
	AnalysisText string       `json:"analysis"`
	Score        *int         `json:"score,omitempty"`
	Suggestions  []Suggestion `json:"suggestions"`
}

// HasScore reports whether a score was attached to the result.
func (r Result) HasScore() bool {
	return r.Score != nil
}

// Empty reports whether there is nothing to show or export.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.AnalysisText) == ""
}

// Generation is what a text-generation provider hands back for one prompt.
// Suggestions is empty unless the provider supplies them separately.
type Generation struct {
	Text        string
	Suggestions []Suggestion
	Model       string
}

// ScoreOf returns a pointer suitable for Result.Score.
func ScoreOf(v int) *int {
	return &v
}
