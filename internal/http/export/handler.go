package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/folio/internal/export"
	portfolioHTTP "github.com/MrJamesThe3rd/folio/internal/http/portfolio"
	"github.com/MrJamesThe3rd/folio/internal/http/render"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type Handler struct {
	svc  *export.Service
	rows export.RowLister
}

func NewHandler(svc *export.Service, rows export.RowLister) *Handler {
	return &Handler{svc: svc, rows: rows}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/summary", h.summary)
	r.Get("/archive", h.archive)
}

type summaryResponse struct {
	Records      int    `json:"records"`
	UniqueMonths int    `json:"unique_months"`
	Total        string `json:"total"`
	Summary      string `json:"summary"`
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, err := portfolioHTTP.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Load first so a failure can still be reported with a proper status.
	rows, err := h.rows.Rows(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s.csv\"", export.Filename(filter, time.Now())))

	if err := export.WriteRows(w, rows); err != nil {
		slog.ErrorContext(r.Context(), "failed to write csv", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := portfolioHTTP.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.rows.Rows(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	stats := portfolio.ComputeStats(rows)

	render.JSON(w, http.StatusOK, summaryResponse{
		Records:      stats.Records,
		UniqueMonths: stats.UniqueMonths,
		Total:        stats.Total.StringFixed(2),
		Summary:      export.Summary(rows),
	})
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	filter, err := portfolioHTTP.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "folio-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	if _, err := h.svc.ExportToDir(r.Context(), filter, tmpDir); err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s.zip\"", export.Filename(filter, time.Now())))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
