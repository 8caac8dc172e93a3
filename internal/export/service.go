package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

var csvHeader = []string{"Year", "Month", "Snapshot Date", "Category", "Amount", "Updated At"}

// RowLister is the part of the portfolio service the export needs.
type RowLister interface {
	Rows(ctx context.Context, filter portfolio.RowFilter) ([]*portfolio.Row, error)
}

// Service exports portfolio history.
type Service struct {
	rows RowLister
}

// NewService creates a new export Service.
func NewService(rows RowLister) *Service {
	return &Service{rows: rows}
}

// WriteCSV writes the rows matching filter to w and returns their statistics.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter portfolio.RowFilter) (portfolio.Stats, error) {
	rows, err := s.rows.Rows(ctx, filter)
	if err != nil {
		return portfolio.Stats{}, fmt.Errorf("listing rows: %w", err)
	}

	if err := WriteRows(w, rows); err != nil {
		return portfolio.Stats{}, err
	}

	return portfolio.ComputeStats(rows), nil
}

// WriteRows writes rows as CSV with a header line.
func WriteRows(w io.Writer, rows []*portfolio.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.SnapshotDate.Format(time.DateOnly),
			r.CategoryName,
			r.Amount.StringFixed(2),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Exported describes the files written by ExportToDir.
type Exported struct {
	CSVPath     string
	SummaryPath string
	Summary     string
}

// ExportToDir writes the CSV and a text summary next to each other in
// outputDir.
func (s *Service) ExportToDir(ctx context.Context, filter portfolio.RowFilter, outputDir string) (*Exported, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	rows, err := s.rows.Rows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}

	base := filepath.Join(outputDir, Filename(filter, time.Now()))
	out := &Exported{
		CSVPath:     base + ".csv",
		SummaryPath: base + ".txt",
		Summary:     Summary(rows),
	}

	f, err := os.Create(out.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteRows(f, rows); err != nil {
		return nil, err
	}

	if err := os.WriteFile(out.SummaryPath, []byte(out.Summary), 0o644); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	return out, nil
}

// Filename names an export after its filter, e.g. portfolio_2025-03_20250401.
func Filename(filter portfolio.RowFilter, now time.Time) string {
	name := "portfolio"

	switch {
	case filter.Year != nil && filter.Month != nil:
		name += fmt.Sprintf("_%d-%02d", *filter.Year, *filter.Month)
	case filter.Year != nil:
		name += fmt.Sprintf("_%d", *filter.Year)
	case filter.Month != nil:
		name += fmt.Sprintf("_m%02d", *filter.Month)
	}

	return name + "_" + now.Format("20060102")
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Summary renders one line per month, newest first, followed by the totals.
func Summary(rows []*portfolio.Row) string {
	type monthTotal struct {
		year, month int
		date        time.Time
		categories  int
		total       decimal.Decimal
	}

	var months []*monthTotal

	for _, r := range rows {
		var cur *monthTotal
		if n := len(months); n > 0 && months[n-1].year == r.Year && months[n-1].month == r.Month {
			cur = months[n-1]
		} else {
			cur = &monthTotal{year: r.Year, month: r.Month, date: r.SnapshotDate}
			months = append(months, cur)
		}

		cur.categories++
		cur.total = cur.total.Add(r.Amount)
	}

	var sb strings.Builder

	for _, m := range months {
		sb.WriteString(fmt.Sprintf("* %d-%02d | %s | %d categories | %s\n",
			m.year, m.month, m.date.Format(time.DateOnly), m.categories, FormatAmount(m.total)))
	}

	stats := portfolio.ComputeStats(rows)
	sb.WriteString(fmt.Sprintf("\nRecords: %d\nMonths: %d\nTotal: %s\n",
		stats.Records, stats.UniqueMonths, FormatAmount(stats.Total)))

	return sb.String()
}
