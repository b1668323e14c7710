package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/opticode/internal/application"
	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	domain "github.com/bryanwahyu/opticode/internal/domain/report"
)

// Composer lays a result out into linear vertical offsets. It never breaks
// pages; overflow belongs to the renderer.
type Composer struct {
	Measurer domain.Measurer
	Clock    application.Clock
}

// Compose builds the report document for res. A nil or text-less result is
// ErrNothingToExport.
func (c *Composer) Compose(res *analysis.Result, title string) (*domain.Document, error) {
	if res == nil || res.Empty() {
		return nil, domain.ErrNothingToExport
	}
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultTitle
	}

	runs := []domain.TextRun{{
		Kind: domain.RunTitle, Text: title,
		X: domain.MarginX, Y: domain.TitleY, FontSize: domain.TitleFontSize, Item: -1,
	}}

	bodyStart := domain.BodyStartNoScore
	if res.HasScore() {
		runs = append(runs, domain.TextRun{
			Kind: domain.RunScore, Text: ScoreLine(*res.Score),
			X: domain.MarginX, Y: domain.ScoreY, FontSize: domain.ScoreFontSize, Item: -1,
		})
		bodyStart = domain.BodyStartWithScore
	}

	lines := c.Measurer.Wrap(res.AnalysisText, domain.BodyFontSize, domain.ContentWidth)
	for i, line := range lines {
		runs = append(runs, domain.TextRun{
			Kind: domain.RunBody, Text: line,
			X: domain.MarginX, Y: bodyStart + float64(i)*domain.LineHeight, FontSize: domain.BodyFontSize, Item: -1,
		})
	}

	layout := domain.Layout{BodyStartY: bodyStart, AnalysisLines: len(lines)}

	if len(res.Suggestions) > 0 {
		blockY := bodyStart + float64(len(lines))*domain.LineHeight + domain.SectionGap
		layout.SuggestionsY = blockY
		runs = append(runs, domain.TextRun{
			Kind: domain.RunSuggestionsHeader, Text: "Suggestions",
			X: domain.MarginX, Y: blockY, FontSize: domain.ScoreFontSize, Item: -1,
		})
		for i, s := range res.Suggestions {
			itemY := blockY + domain.HeaderGap + float64(i)*domain.ItemLineHeight
			for j, line := range c.Measurer.Wrap(s.Line(i), domain.BodyFontSize, domain.ContentWidth) {
				runs = append(runs, domain.TextRun{
					Kind: domain.RunSuggestion, Text: line,
					X: domain.MarginX, Y: itemY + float64(j)*domain.ItemWrapLineHeight, FontSize: domain.BodyFontSize, Item: i,
				})
			}
		}
	}
	layout.Runs = runs

	// the document keeps its own copy of the suggestions
	snapshot := *res
	snapshot.Suggestions = append([]analysis.Suggestion(nil), res.Suggestions...)

	return &domain.Document{
		Title:       title,
		GeneratedAt: c.now(),
		Result:      snapshot,
		Layout:      layout,
	}, nil
}

// ScoreLine formats the score line of a report.
func ScoreLine(score int) string {
	return fmt.Sprintf("Code Quality Score: %d / 100", score)
}

func (c *Composer) now() time.Time {
	if c.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return c.Clock.Now()
}
