package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/opticode/internal/application"
	domain "github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/infra/ai/prompt"
	"github.com/bryanwahyu/opticode/internal/telemetry"
)

// Service implements the analysis use-case. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	Generator domain.Generator
	// ConfigErr explains why Generator is nil, e.g. a missing credential.
	ConfigErr error
	Scorer    domain.Scorer
	// Recorder is optional.
	Recorder domain.Recorder
	Clock    application.Clock
	Model    string
}

// Analyze validates code, forwards it to the generator wrapped in the review
// template and builds the result.
func (s *Service) Analyze(ctx context.Context, code string) (domain.Result, error) {
	if err := s.Ready(); err != nil {
		return domain.Result{}, err
	}
	if (domain.Request{Code: code}).Blank() {
		return domain.Result{}, domain.ErrEmptyInput
	}

	started := s.now()
	gen, err := s.Generator.Generate(ctx, prompt.Review(code))
	if err == nil && gen.Text == "" {
		err = domain.ErrMalformedResponse
	}
	if err != nil {
		class := Classify(err)
		telemetry.Error("analysis.failed", map[string]any{
			"failure":     string(class),
			"model":       s.modelFor(gen),
			"duration_ms": s.now().Sub(started).Milliseconds(),
			"err":         err,
		})
		s.record(ctx, code, gen, domain.Result{}, class)
		return domain.Result{}, fmt.Errorf("%w: %s", domain.ErrAnalysisFailed, class)
	}

	scorer := s.Scorer
	if scorer == nil {
		scorer = RandomScorer{}
	}

	suggestions := gen.Suggestions
	if len(suggestions) == 0 {
		suggestions = domain.FallbackSuggestions()
	}

	res := domain.Result{
		AnalysisText: gen.Text,
		Score:        domain.ScoreOf(scorer.Score(code, gen.Text)),
		Suggestions:  suggestions,
	}

	telemetry.Info("analysis.completed", map[string]any{
		"model":       s.modelFor(gen),
		"code_bytes":  len(code),
		"score":       *res.Score,
		"suggestions": len(res.Suggestions),
		"duration_ms": s.now().Sub(started).Milliseconds(),
	})
	s.record(ctx, code, gen, res, domain.FailureNone)
	return res, nil
}

// Ready reports whether a generator is configured. The error is the
// ConfigError naming the missing credential when there is one.
func (s *Service) Ready() error {
	if s.Generator != nil {
		return nil
	}
	if s.ConfigErr != nil {
		return s.ConfigErr
	}
	return domain.ErrConfiguration
}

// History returns a page of recorded analyses, newest first. Without a
// recorder it returns an empty list.
func (s *Service) History(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if s.Recorder == nil {
		return []*domain.Record{}, nil
	}
	return s.Recorder.Paginate(ctx, page, pageSize)
}

// Classify maps a provider error onto a failure class for logs and audit.
func Classify(err error) domain.FailureClass {
	var netErr net.Error
	switch {
	case err == nil:
		return domain.FailureNone
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.FailureTimeout
	case errors.Is(err, domain.ErrProviderAuth):
		return domain.FailureAuth
	case errors.Is(err, domain.ErrQuotaExceeded):
		return domain.FailureQuota
	case errors.Is(err, domain.ErrMalformedResponse):
		return domain.FailureMalformed
	default:
		return domain.FailureUnknown
	}
}

func (s *Service) record(ctx context.Context, code string, gen domain.Generation, res domain.Result, class domain.FailureClass) {
	if s.Recorder == nil {
		return
	}
	sum := sha256.Sum256([]byte(code))
	rec := &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		CodeHash:  hex.EncodeToString(sum[:]),
		CodeBytes: len(code),
		Model:     s.modelFor(gen),
		Status:    domain.StatusSuccess,
		Failure:   class,
		Score:     res.Score,
		Analysis:  res.AnalysisText,
		CreatedAt: s.now(),
	}
	if class != domain.FailureNone {
		rec.Status = domain.StatusFailed
	}
	// audit must not turn a finished analysis into a failure
	if err := s.Recorder.Save(context.WithoutCancel(ctx), rec); err != nil {
		telemetry.Error("analysis.record_failed", map[string]any{"id": string(rec.ID), "err": err})
	}
}

func (s *Service) modelFor(gen domain.Generation) string {
	if gen.Model != "" {
		return gen.Model
	}
	return s.Model
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}
