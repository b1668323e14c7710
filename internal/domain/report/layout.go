package report

// Page geometry and layout constants, in millimetres and points.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	PageMargin = 10.0

	MarginX      = 10.0
	ContentWidth = 180.0

	TitleY        = 10.0
	TitleFontSize = 16.0

	ScoreY        = 20.0
	ScoreFontSize = 12.0

	BodyFontSize       = 10.0
	BodyStartWithScore = 30.0
	BodyStartNoScore   = 20.0
	LineHeight         = 7.0

	SectionGap         = 10.0
	HeaderGap          = 10.0
	ItemLineHeight     = 10.0
	ItemWrapLineHeight = 5.0
)

// RunKind identifies what a text run belongs to.
type RunKind string

const (
	RunTitle             RunKind = "title"
	RunScore             RunKind = "score"
	RunBody              RunKind = "body"
	RunSuggestionsHeader RunKind = "suggestions_header"
	RunSuggestion        RunKind = "suggestion"
)

// TextRun is one line of text placed at a linear vertical offset. Y assumes
// continuous space; the renderer maps it onto pages.
type TextRun struct {
	Kind     RunKind `json:"kind"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	// Item is the suggestion index for RunSuggestion runs, -1 otherwise.
	Item int `json:"item"`
}

// Layout is the computed placement of every run in a report.
type Layout struct {
	Runs          []TextRun `json:"runs"`
	BodyStartY    float64   `json:"body_start_y"`
	AnalysisLines int       `json:"analysis_lines"`
	// SuggestionsY is the header offset; zero when the section is omitted.
	SuggestionsY float64 `json:"suggestions_y"`
}

// RunsOf returns the runs of the given kind in order.
func (l Layout) RunsOf(kind RunKind) []TextRun {
	var out []TextRun
	for _, r := range l.Runs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// ItemY returns the offset of the first line of suggestion i.
func (l Layout) ItemY(i int) (float64, bool) {
	for _, r := range l.Runs {
		if r.Kind == RunSuggestion && r.Item == i {
			return r.Y, true
		}
	}
	return 0, false
}
