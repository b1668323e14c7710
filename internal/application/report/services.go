package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	domain "github.com/bryanwahyu/opticode/internal/domain/report"
	"github.com/bryanwahyu/opticode/internal/telemetry"
)

// Service composes, renders and optionally archives reports.
type Service struct {
	Composer *Composer
	Renderer domain.Renderer
	// Archive is optional.
	Archive domain.Archive
}

// Export is a rendered report.
type Export struct {
	Document    *domain.Document
	Bytes       []byte
	ContentType string
	FileName    string
	URL         string
}

// Export builds the report for res. Archive failures are logged and do not
// fail the export.
func (s *Service) Export(ctx context.Context, res *analysis.Result, title string) (*Export, error) {
	doc, err := s.Composer.Compose(res, title)
	if err != nil {
		return nil, err
	}
	data, err := s.Renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	out := &Export{
		Document:    doc,
		Bytes:       data,
		ContentType: s.Renderer.ContentType(),
		FileName:    FileName(doc),
	}

	if s.Archive != nil {
		key := fmt.Sprintf("reports/%s/%s-%s", doc.GeneratedAt.Format("2006/01/02"), uuid.New().String(), out.FileName)
		url, err := s.Archive.Put(ctx, key, data, out.ContentType)
		if err != nil {
			telemetry.Error("report.archive_failed", map[string]any{"key": key, "err": err})
		} else {
			out.URL = url
		}
	}
	return out, nil
}

// FileName is the download name of a rendered report.
func FileName(doc *domain.Document) string {
	return "code-analysis-" + doc.GeneratedAt.Format("20060102-150405") + ".pdf"
}
