package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// handleImportCSV accepts a multipart upload and imports the well-formed
// rows. Bad rows are skipped; the redirect notice reports both counts.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("upload too large or malformed"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		seeOther(w, r, "/expenses?error="+url.QueryEscape("no file uploaded"))
		return
	}
	defer file.Close()

	result, err := s.reports.ImportCSV(r.Context(), file)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV import failed", "error", err)
		seeOther(w, r, "/expenses?error="+url.QueryEscape(err.Error()))
		return
	}

	notice := fmt.Sprintf("imported %d expenses", result.Imported)
	if result.Skipped > 0 {
		notice = fmt.Sprintf("imported %d expenses, skipped %d invalid rows",
			result.Imported, result.Skipped)
	}
	seeOther(w, r, "/expenses?notice="+url.QueryEscape(notice))
}

// handleExportCSV streams the filtered expense set as an attachment. The
// filter query params are the same ones the listing page uses.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filter := parseFilter(r.URL.Query())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := s.reports.ExportCSV(r.Context(), w, filter, time.Now()); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}
