package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/export"
	exportHTTP "github.com/MrJamesThe3rd/folio/internal/http/export"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type fakeRows struct {
	rows []*portfolio.Row
	err  error
	last portfolio.RowFilter
}

func (f *fakeRows) Rows(_ context.Context, filter portfolio.RowFilter) ([]*portfolio.Row, error) {
	f.last = filter
	return f.rows, f.err
}

func newServer(rows *fakeRows) http.Handler {
	r := chi.NewRouter()
	r.Route("/export", exportHTTP.NewHandler(export.NewService(rows), rows).Routes)

	return r
}

func sampleRows() []*portfolio.Row {
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	return []*portfolio.Row{
		{Year: 2025, Month: 3, SnapshotDate: d, CategoryName: "coin", Amount: decimal.RequireFromString("500"), UpdatedAt: d},
		{Year: 2025, Month: 3, SnapshotDate: d, CategoryName: "kite", Amount: decimal.RequireFromString("750"), UpdatedAt: d},
	}
}

func TestHandler_CSV(t *testing.T) {
	rows := &fakeRows{rows: sampleRows()}

	rec := httptest.NewRecorder()
	newServer(rows).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/?year=2025&month=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "portfolio_2025-03_")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "2025,3,2025-03-15,kite,750.00,2025-03-15T00:00:00Z", lines[2])

	require.NotNil(t, rows.last.Month)
	assert.Equal(t, 3, *rows.last.Month)
}

func TestHandler_CSV_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&fakeRows{err: errors.New("boom")}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	newServer(&fakeRows{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/?month=march", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Summary(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&fakeRows{rows: sampleRows()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Records int    `json:"records"`
		Total   string `json:"total"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Records)
	assert.Equal(t, "1250.00", body.Total)
	assert.Contains(t, body.Summary, "1,250.00")
}

func TestHandler_Archive(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&fakeRows{rows: sampleRows()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/archive", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.True(t, strings.HasSuffix(names[0], ".csv"))
	assert.True(t, strings.HasSuffix(names[1], ".txt"))
}
