package pdf

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/bryanwahyu/opticode/internal/domain/report"
)

const contentType = "application/pdf"

// usableHeight is the vertical extent of one page available to text.
const usableHeight = report.PageHeight - 2*report.PageMargin

// Renderer draws composed reports with fpdf. Runs carry linear offsets; the
// renderer owns page breaks.
type Renderer struct {
	Creator string
}

func NewRenderer() *Renderer {
	return &Renderer{Creator: "OptiCode AI"}
}

func (r *Renderer) ContentType() string { return contentType }

// Render produces the PDF bytes for doc.
func (r *Renderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil || doc.Result.Empty() {
		return nil, report.ErrNothingToExport
	}

	p := fpdf.New("P", "mm", "A4", "")
	p.SetAutoPageBreak(false, 0)
	p.SetMargins(report.PageMargin, report.PageMargin, report.PageMargin)
	p.SetTitle(doc.Title, true)
	p.SetCreator(r.Creator, true)
	p.SetCreationDate(doc.GeneratedAt)
	p.SetModificationDate(doc.GeneratedAt)
	tr := p.UnicodeTranslatorFromDescriptor("")

	last := 0
	for _, run := range doc.Layout.Runs {
		if page, _ := Place(run.Y); page > last {
			last = page
		}
	}
	for i := 0; i <= last; i++ {
		p.AddPage()
	}

	for _, run := range doc.Layout.Runs {
		page, y := Place(run.Y)
		p.SetPage(page + 1)
		p.SetFont(fontFamily, styleFor(run.Kind), run.FontSize)
		p.Text(run.X, y, tr(run.Text))
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// Place maps a linear offset onto a zero-based page index and the offset on
// that page.
func Place(y float64) (int, float64) {
	if y < report.PageMargin {
		return 0, y
	}
	page := int(math.Floor((y - report.PageMargin) / usableHeight))
	return page, y - float64(page)*usableHeight
}

func styleFor(kind report.RunKind) string {
	switch kind {
	case report.RunTitle, report.RunSuggestionsHeader:
		return "B"
	default:
		return ""
	}
}
