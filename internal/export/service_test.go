package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type fakeRows struct {
	rows []*portfolio.Row
	err  error
}

func (f *fakeRows) Rows(ctx context.Context, filter portfolio.RowFilter) ([]*portfolio.Row, error) {
	return f.rows, f.err
}

func sampleRows() []*portfolio.Row {
	march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)

	return []*portfolio.Row{
		{Year: 2025, Month: 3, SnapshotDate: march, CategoryName: "coin", Amount: decimal.RequireFromString("1234.5"), UpdatedAt: updated},
		{Year: 2025, Month: 3, SnapshotDate: march, CategoryName: "kite", Amount: decimal.RequireFromString("750"), UpdatedAt: updated},
		{Year: 2025, Month: 2, SnapshotDate: feb, CategoryName: "coin", Amount: decimal.RequireFromString("1000"), UpdatedAt: updated},
	}
}

func TestService_WriteCSV(t *testing.T) {
	s := NewService(&fakeRows{rows: sampleRows()})

	var buf bytes.Buffer

	stats, err := s.WriteCSV(context.Background(), &buf, portfolio.RowFilter{})
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	if lines[0] != "Year,Month,Snapshot Date,Category,Amount,Updated At" {
		t.Errorf("unexpected header %q", lines[0])
	}

	if lines[1] != "2025,3,2025-03-15,coin,1234.50,2025-03-16T09:00:00Z" {
		t.Errorf("unexpected first row %q", lines[1])
	}

	if stats.Records != 3 || stats.UniqueMonths != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if !stats.Total.Equal(decimal.RequireFromString("2984.5")) {
		t.Errorf("unexpected total %s", stats.Total)
	}
}

func TestService_WriteCSV_Unavailable(t *testing.T) {
	s := NewService(&fakeRows{err: errors.New("connection refused")})

	var buf bytes.Buffer
	if _, err := s.WriteCSV(context.Background(), &buf, portfolio.RowFilter{}); err == nil {
		t.Fatal("expected an error")
	}

	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %q", buf.String())
	}
}

func TestService_ExportToDir(t *testing.T) {
	s := NewService(&fakeRows{rows: sampleRows()})
	dir := t.TempDir()

	year := 2025

	out, err := s.ExportToDir(context.Background(), portfolio.RowFilter{Year: &year}, dir)
	if err != nil {
		t.Fatalf("ExportToDir failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(out.CSVPath), "portfolio_2025_") {
		t.Errorf("unexpected file name %s", filepath.Base(out.CSVPath))
	}

	if filepath.Dir(out.SummaryPath) != dir {
		t.Errorf("summary written outside %s: %s", dir, out.SummaryPath)
	}

	if out.Summary != Summary(sampleRows()) {
		t.Errorf("returned summary differs from Summary:\n%s", out.Summary)
	}

	summary, err := os.ReadFile(out.SummaryPath)
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}

	if string(summary) != out.Summary {
		t.Errorf("summary file differs from returned summary:\n%s", summary)
	}

	if !strings.Contains(out.Summary, "Records: 3") {
		t.Errorf("summary missing record count:\n%s", out.Summary)
	}
}

func TestSummary(t *testing.T) {
	body := Summary(sampleRows())

	expectedSubstrings := []string{
		"* 2025-03 | 2025-03-15 | 2 categories | 1,984.50",
		"* 2025-02 | 2025-02-28 | 1 categories | 1,000.00",
		"Months: 2",
		"Total: 2,984.50",
	}

	for _, sub := range expectedSubstrings {
		if !strings.Contains(body, sub) {
			t.Errorf("expected body to contain %q, got:\n%s", sub, body)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	year, month := 2025, 3

	cases := map[string]portfolio.RowFilter{
		"portfolio_20250401":         {},
		"portfolio_2025_20250401":    {Year: &year},
		"portfolio_2025-03_20250401": {Year: &year, Month: &month},
		"portfolio_m03_20250401":     {Month: &month},
	}

	for want, filter := range cases {
		if got := Filename(filter, now); got != want {
			t.Errorf("Filename(%+v) = %s, want %s", filter, got, want)
		}
	}
}
