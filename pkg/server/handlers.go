package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/checker"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

// errBadUpload marks client errors in the uploaded form
var errBadUpload = errors.New("bad upload")

// multipartMemory is the part of a form kept in memory; the rest spills to disk
const multipartMemory = 32 << 20

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	opts := s.cfg.Report
	if opts.Title == "" {
		opts = report.DefaultOptions()
	}
	s.render(w, "index.html", map[string]string{
		"Title":  opts.Title,
		"Byline": opts.Byline,
		"Target": s.checker.Target(),
	})
}

// handleCheck returns the annotated document as a download.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, err, false)
		return
	}

	res, err := s.checker.Check(r.Context(), data)
	if err != nil {
		s.fail(w, r, err, false)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.OutputName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Output)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Output)
}

// handleAnalyze renders the table and chart in the page; no file is produced.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, err, false)
		return
	}

	res, err := s.checker.Analyze(r.Context(), data)
	if err != nil {
		s.fail(w, r, err, false)
		return
	}

	view := struct {
		Heading  string
		Filename string
		Pages    int
		Summary  analysis.Summary
		Verdict  string
		Chart    template.URL
	}{
		Heading:  s.reportOptions().Heading,
		Filename: filename,
		Pages:    res.Pages,
		Summary:  res.Summary,
		Verdict:  report.Verdict(res.Summary, s.cfg.Report),
	}
	if len(res.Chart) > 0 {
		view.Chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Chart))
	}

	s.render(w, "result.html", view)
}

type analyzeResponse struct {
	Filename string           `json:"filename"`
	Pages    int              `json:"pages"`
	Backend  string           `json:"backend"`
	Summary  analysis.Summary `json:"summary"`
	Verdict  string           `json:"verdict"`
	Marks    []analysis.Mark  `json:"marks"`
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, err, true)
		return
	}

	res, err := s.checker.Analyze(r.Context(), data)
	if err != nil {
		s.fail(w, r, err, true)
		return
	}

	marks := res.Marks
	if marks == nil {
		marks = []analysis.Mark{}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Filename: filename,
		Pages:    res.Pages,
		Backend:  res.Backend,
		Summary:  res.Summary,
		Verdict:  report.Verdict(res.Summary, s.cfg.Report),
		Marks:    marks,
	})
}

// readUpload returns the bytes and name of the "file" form field
func (s *Server) readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", errBadUpload, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: missing file field", errBadUpload)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, "", fmt.Errorf("%w: %q is not a .pdf file", errBadUpload, name)
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, "", &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	return data, name, nil
}

// fail maps an error onto a status code. Client errors are echoed, anything
// else is logged and answered with a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, asJSON bool) {
	code, msg := http.StatusInternalServerError, "internal error"

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		code, msg = http.StatusRequestEntityTooLarge, fmt.Sprintf("file too large (max %d bytes)", s.cfg.MaxUploadBytes)
	case errors.Is(err, errBadUpload), errors.Is(err, checker.ErrEmptyInput):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, pdf.ErrNotPDF):
		code, msg = http.StatusBadRequest, pdf.ErrNotPDF.Error()
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the answer.
		code, msg = 499, "request cancelled"
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "status", code, "error", err)
	}

	if asJSON {
		writeJSON(w, code, map[string]string{"error": msg})
		return
	}
	http.Error(w, msg, code)
}

func (s *Server) reportOptions() report.Options {
	opts := s.cfg.Report
	if opts.Heading == "" {
		opts.Heading = report.DefaultOptions().Heading
	}
	return opts
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
