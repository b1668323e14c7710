package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/domain/report"
	"github.com/bryanwahyu/opticode/internal/middleware"
	"github.com/bryanwahyu/opticode/internal/telemetry"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgNoCode           = "No code provided"
	msgAnalysisFailed   = "Failed to analyze the code."
	msgNothingToExport  = "No analysis to export"
	msgInternal         = "Internal server error"
)

type errorBody struct {
	Error string `json:"error"`
}

// httpError is returned by handlers for request-level problems whose
// message is safe to show.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{status: http.StatusBadRequest, msg: msg} }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			telemetry.Error("http.request_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(req.Context()),
				"path":       req.URL.Path,
				"status":     status,
				"err":        err,
			})
		}
		writeJSON(w, status, errorBody{Error: msg})
	}
}

// statusFor maps an error to the status code and the message sent on the
// wire. Provider causes never leave this function.
func statusFor(err error) (int, string) {
	var cfgErr *analysis.ConfigError
	var hErr *httpError
	switch {
	case errors.As(err, &hErr):
		return hErr.status, hErr.msg
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, cfgErr.Message
	case errors.Is(err, analysis.ErrConfiguration):
		return http.StatusInternalServerError, analysis.ErrConfiguration.Error()
	case errors.Is(err, analysis.ErrEmptyInput):
		return http.StatusBadRequest, msgNoCode
	case errors.Is(err, analysis.ErrAnalysisFailed):
		return http.StatusInternalServerError, msgAnalysisFailed
	case errors.Is(err, report.ErrNothingToExport):
		return http.StatusBadRequest, msgNothingToExport
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
