package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/bryanwahyu/opticode/internal/domain/analysis"
	"github.com/bryanwahyu/opticode/internal/middleware"
)

const (
	reportURLHeader = "X-Report-URL"

	// JSON escaping can roughly double the size of an uploaded file.
	maxJSONBody = 2*analysis.MaxUploadBytes + 4096
)

// POST /api/analyze
// Body: {"code": "<source>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		return &httpError{status: http.StatusMethodNotAllowed, msg: msgMethodNotAllowed}
	}
	if err := r.analysisSvc.Ready(); err != nil {
		return err
	}

	var body analysis.Request
	if err := decodeJSON(w, req, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &httpError{status: http.StatusRequestEntityTooLarge, msg: "Request body too large"}
		}
		return analysis.ErrEmptyInput
	}
	if body.Blank() {
		return analysis.ErrEmptyInput
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	res, err := r.analysisSvc.Analyze(req.Context(), body.Code)
	if err != nil {
		if errors.Is(err, analysis.ErrAnalysisFailed) {
			middleware.IncrementAnalysesFailed()
		}
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

type reportRequest struct {
	Title string `json:"title"`
	analysis.Result
}

// POST /api/report
// Body: {"title"?, "analysis", "score"?, "suggestions"?} → application/pdf
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	var body reportRequest
	if err := decodeJSON(w, req, &body); err != nil {
		return badRequest("Invalid request body")
	}
	if body.Score != nil && (*body.Score < 0 || *body.Score > 100) {
		return badRequest("score must be between 0 and 100")
	}

	title := middleware.SanitizeTitle(body.Title)
	if title == "" {
		title = r.reportTitle
	}

	out, err := r.reportSvc.Export(req.Context(), &body.Result, title)
	if err != nil {
		return err
	}
	middleware.IncrementReports()

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Bytes)))
	if out.URL != "" {
		w.Header().Set(reportURLHeader, out.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(out.Bytes)
	return err
}

// POST /api/upload (multipart, field "file") → {"code": "<contents>"}
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, analysis.MaxUploadBytes+64*1024)
	if err := req.ParseMultipartForm(analysis.MaxUploadBytes); err != nil {
		return badRequest("Invalid upload: expected multipart field \"file\" up to 1 MiB")
	}
	defer req.MultipartForm.RemoveAll()

	f, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("Missing file")
	}
	defer f.Close()

	if err := analysis.ValidateUploadName(header.Filename); err != nil {
		return badRequest(err.Error())
	}
	data, err := io.ReadAll(io.LimitReader(f, analysis.MaxUploadBytes+1))
	if err != nil {
		return badRequest("Could not read file")
	}
	if len(data) > analysis.MaxUploadBytes {
		return badRequest("File exceeds 1 MiB")
	}
	if !utf8.Valid(data) {
		return badRequest("File is not UTF-8 text")
	}
	middleware.IncrementUploads()
	return writeJSON(w, http.StatusOK, map[string]string{"code": string(data)})
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleAnalyses(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	page := middleware.ParsePage(q.Get("page"))
	size := middleware.ParsePageSize(q.Get("page_size"))

	list, err := r.analysisSvc.History(req.Context(), page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

func decodeJSON(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxJSONBody)
	return json.NewDecoder(req.Body).Decode(v)
}
