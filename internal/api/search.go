package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

// errorBody is the failure response. detail mirrors the message for browser clients.
type errorBody struct {
	Kind   analysis.Kind `json:"kind"`
	Detail string        `json:"detail"`
}

func (s *Server) searchHistory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, analysis.KindInputFormat,
				fmt.Sprintf("Upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, "Expected a multipart upload with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	year, err := s.targetYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, "Missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, "File must be a ZIP archive")
		return
	}

	archive, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, "Could not read upload")
		return
	}
	if !isZip(archive) {
		writeError(w, http.StatusBadRequest, analysis.KindInputFormat, "Invalid ZIP file")
		return
	}

	if err := s.slots.Acquire(r.Context(), 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, analysis.KindInternal, "Request cancelled while waiting for an analysis slot")
		return
	}
	bundle, err := s.analyzer.AnalyzeHistory(r.Context(), archive, year)
	s.slots.Release(1)

	if err != nil {
		var ae *analysis.Error
		if errors.As(err, &ae) {
			if ae.AnalysisID != uuid.Nil {
				w.Header().Set("X-Analysis-ID", ae.AnalysisID.String())
			}
			writeError(w, statusFor(ae.Kind), ae.Kind, ae.Message)
			return
		}
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, analysis.KindInternal, "Processing error")
		return
	}

	w.Header().Set("X-Analysis-ID", bundle.AnalysisID.String())
	writeJSON(w, http.StatusOK, bundle)
}

// targetYear reads the optional year form or query value.
func (s *Server) targetYear(r *http.Request) (int, error) {
	raw := r.FormValue("year")
	if raw == "" {
		return s.opts.DefaultYear, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, fmt.Errorf("year must be a four-digit number, got %q", raw)
	}
	return year, nil
}

func isZip(data []byte) bool {
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if mt.Is("application/zip") {
			return true
		}
	}
	return false
}

func statusFor(kind analysis.Kind) int {
	switch kind {
	case analysis.KindInputFormat, analysis.KindDataFormat, analysis.KindEmptyResult:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, kind analysis.Kind, detail string) {
	writeJSON(w, status, errorBody{Kind: kind, Detail: detail})
}
