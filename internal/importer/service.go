package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/MrJamesThe3rd/folio/internal/category"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type CategoryLister interface {
	ListActive(ctx context.Context) ([]*category.Category, error)
}

type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, params portfolio.SnapshotParams) (*portfolio.SnapshotResult, error)
}

// Report describes what an import did, one entry per spreadsheet row.
type Report struct {
	Charset           string      `json:"charset"`
	UnknownCategories []string    `json:"unknown_categories"`
	Rows              []RowReport `json:"rows"`
}

type RowReport struct {
	Line    int    `json:"line"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

func (r *Report) Totals() (saved, failed int) {
	for _, row := range r.Rows {
		saved += row.Saved
		failed += row.Failed
	}

	return saved, failed
}

type Service struct {
	categories CategoryLister
	snapshots  SnapshotSaver
}

func NewService(categories CategoryLister, snapshots SnapshotSaver) *Service {
	return &Service{categories: categories, snapshots: snapshots}
}

// Import saves every row of the spreadsheet as a monthly snapshot. Columns
// that do not name an active category are reported and ignored; categories
// are never created here. A row that cannot be read or saved is reported on
// its RowReport and does not stop the rows after it.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Report, error) {
	sheet, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}

	active, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	byName := category.ByName(active)

	report := &Report{Charset: sheet.Charset, UnknownCategories: []string{}}

	for _, name := range sheet.Categories {
		if _, ok := byName[name]; !ok {
			report.UnknownCategories = append(report.UnknownCategories, name)
		}
	}

	for _, row := range sheet.Rows {
		report.Rows = append(report.Rows, s.importRow(ctx, row, byName))
	}

	saved, failed := report.Totals()
	slog.InfoContext(ctx, "spreadsheet imported",
		"rows", len(report.Rows), "saved", saved, "failed", failed,
		"unknown_categories", len(report.UnknownCategories), "charset", sheet.Charset)

	return report, nil
}

func (s *Service) importRow(ctx context.Context, row SheetRow, byName map[string]*category.Category) RowReport {
	rr := RowReport{Line: row.Line, Year: row.Year, Month: row.Month}

	if row.Err != nil {
		rr.Failed = row.Filled
		rr.Error = row.Err.Error()

		return rr
	}

	names := make([]string, 0, len(row.Amounts))
	for name := range row.Amounts {
		if _, ok := byName[name]; ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	params := portfolio.SnapshotParams{
		Year:         row.Year,
		Month:        row.Month,
		SnapshotDate: row.SnapshotDate,
	}

	for _, name := range names {
		params.Items = append(params.Items, portfolio.ItemAmount{
			CategoryID: byName[name].ID,
			Amount:     row.Amounts[name],
		})
	}

	result, err := s.snapshots.SaveSnapshot(ctx, params)
	if err != nil {
		rr.Failed = len(params.Items)
		rr.Error = err.Error()

		return rr
	}

	rr.Saved = result.Saved
	rr.Skipped = result.Skipped
	rr.Failed = result.Failed()

	return rr
}
