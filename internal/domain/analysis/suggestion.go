package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SuggestionKind discriminates the two suggestion shapes.
type SuggestionKind int

const (
	// SuggestionPlain is the legacy/fallback shape: a bare string.
	SuggestionPlain SuggestionKind = iota
	// SuggestionStructured carries a title and details.
	SuggestionStructured
)

func (k SuggestionKind) String() string {
	switch k {
	case SuggestionPlain:
		return "plain"
	case SuggestionStructured:
		return "structured"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Suggestion is a tagged variant. Only the fields of its Kind are meaningful.
type Suggestion struct {
	Kind    SuggestionKind
	Text    string
	Title   string
	Details string
}

// Plain builds a legacy suggestion.
func Plain(text string) Suggestion {
	return Suggestion{Kind: SuggestionPlain, Text: text}
}

// Structured builds a rich suggestion.
func Structured(title, details string) Suggestion {
	return Suggestion{Kind: SuggestionStructured, Title: title, Details: details}
}

// Line renders the suggestion the way reports and terminals list it,
// e.g. "2. Naming - use descriptive identifiers".
func (s Suggestion) Line(index int) string {
	switch s.Kind {
	case SuggestionStructured:
		return fmt.Sprintf("%d. %s - %s", index+1, s.Title, s.Details)
	case SuggestionPlain:
		return fmt.Sprintf("%d. %s", index+1, s.Text)
	default:
		panic(fmt.Sprintf("analysis: unhandled suggestion kind %s", s.Kind))
	}
}

type structuredJSON struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// MarshalJSON writes plain suggestions as a JSON string and structured ones
// as {"title","details"}.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SuggestionStructured:
		return json.Marshal(structuredJSON{Title: s.Title, Details: s.Details})
	case SuggestionPlain:
		return json.Marshal(s.Text)
	default:
		return nil, fmt.Errorf("analysis: cannot marshal suggestion kind %s", s.Kind)
	}
}

// UnmarshalJSON branches on the JSON token type.
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("analysis: empty suggestion")
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = Plain(text)
		return nil
	case '{':
		var obj structuredJSON
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*s = Structured(obj.Title, obj.Details)
		return nil
	default:
		return fmt.Errorf("analysis: suggestion must be a string or an object, got %s", string(trimmed))
	}
}

// FallbackSuggestions is used whenever the provider does not supply suggestions.
func FallbackSuggestions() []Suggestion {
	return []Suggestion{
		Plain("Consider using more descriptive variable names."),
		Plain("Optimize loops to reduce time complexity."),
		Plain("Add error handling for edge cases."),
	}
}
