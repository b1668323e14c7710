// Package session holds the client-side state of one analysis session: the
// current code, the latest result and whether a request is in flight.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/domain/report"
)

// ErrBusy is returned when an analysis is started while another one is
// outstanding.
var ErrBusy = errors.New("an analysis is already running")

const (
	ErrorPrefix      = "❗️ Error: "
	GenericFailure   = "Something went wrong. Please try again."
	NoAnalysisNotice = "No analysis returned."
)

// Analyzer is anything that turns code into a result: the HTTP client or the
// in-process service.
type Analyzer interface {
	Analyze(ctx context.Context, code string) (analysis.Result, error)
}

// userMessager is implemented by errors whose text is safe to show as is.
type userMessager interface {
	UserMessage() string
}

// View is a copy of the state at one point in time.
type View struct {
	Code    string
	Result  *analysis.Result
	Loading bool
	Message string
}

type State struct {
	mu      sync.Mutex
	code    string
	result  *analysis.Result
	loading bool
	message string
}

func New() *State { return &State{} }

func (s *State) SetCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

// Reset is the clear action: code, result and message are dropped. An
// outstanding request keeps its loading flag.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = ""
	s.result = nil
	s.message = ""
}

// Begin starts an analysis turn. It refuses overlapping turns and blank
// code, then clears the previous result and returns the code to submit.
func (s *State) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return "", ErrBusy
	}
	if strings.TrimSpace(s.code) == "" {
		return "", analysis.ErrEmptyInput
	}
	s.loading = true
	s.result = nil
	s.message = ""
	return s.code, nil
}

// Complete replaces the result wholesale.
func (s *State) Complete(res analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.Suggestions = append([]analysis.Suggestion(nil), res.Suggestions...)
	s.result = &res
	s.message = ""
}

// Fail shows err in place of the analysis.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		s.message = ErrorPrefix + um.UserMessage()
		return
	}
	s.message = GenericFailure
}

// Finish returns the session to ready.
func (s *State) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Analyze runs one full turn against a. The loading flag is always cleared,
// whatever a returns.
func (s *State) Analyze(ctx context.Context, a Analyzer) error {
	code, err := s.Begin()
	if err != nil {
		return err
	}
	defer s.Finish()

	res, err := a.Analyze(ctx, code)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.Complete(res)
	return nil
}

func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{Code: s.code, Loading: s.loading, Message: s.message}
	if s.result != nil {
		r := *s.result
		r.Suggestions = append([]analysis.Suggestion(nil), s.result.Suggestions...)
		v.Result = &r
	}
	return v
}

// Display is the text shown in the result area.
func (v View) Display() string {
	switch {
	case v.Message != "":
		return v.Message
	case v.Result == nil:
		return ""
	case v.Result.AnalysisText == "":
		return NoAnalysisNotice
	default:
		return v.Result.AnalysisText
	}
}

// Exportable returns the current result for the report composer, or
// ErrNothingToExport when there is none.
func (s *State) Exportable() (*analysis.Result, error) {
	v := s.View()
	if v.Result == nil || v.Result.Empty() {
		return nil, report.ErrNothingToExport
	}
	return v.Result, nil
}
