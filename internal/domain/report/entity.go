package report

import (
	"errors"
	"time"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
)

// DefaultTitle is used when the caller does not supply one.
const DefaultTitle = "OptiCode AI - Code Analysis Report"

// ErrNothingToExport: no analysis text exists to build a report from.
var ErrNothingToExport = errors.New("no analysis to export")

// Document is a write-once report assembled at export time.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Result      analysis.Result
	Layout      Layout
}
