package analysis

import "context"

// Generator is the external text-generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// Scorer attaches a quality score to an analysis.
type Scorer interface {
	Score(code, analysisText string) int
}

// Recorder persists analysis outcomes for auditing. It is write-only from the
// analysis path.
type Recorder interface {
	Save(ctx context.Context, rec *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}
