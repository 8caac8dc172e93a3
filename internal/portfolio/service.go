package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=portfolio
type Repository interface {
	FindOrCreateMonth(ctx context.Context, m *Month) error
	ListMonths(ctx context.Context) ([]*Month, error)
	UpsertValue(ctx context.Context, v *Value) error
	ListRows(ctx context.Context, filter RowFilter) ([]*Row, error)
	MonthlySummary(ctx context.Context, year, month int) (*Summary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreateMonth resolves the snapshot for (year, month). An existing month
// keeps its original snapshot date; snapshotDate is only used on insert.
func (s *Service) GetOrCreateMonth(ctx context.Context, year, month int, snapshotDate time.Time) (*Month, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	m := &Month{Year: year, Month: month, SnapshotDate: snapshotDate}
	if err := s.repo.FindOrCreateMonth(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// SaveValue writes amount for the (monthID, categoryID) pair, replacing any
// previous value. The sign of amount is the caller's responsibility.
func (s *Service) SaveValue(ctx context.Context, v *Value) error {
	if err := s.repo.UpsertValue(ctx, v); err != nil {
		return &PersistenceError{MonthID: v.MonthID, CategoryID: v.CategoryID, Err: err}
	}

	return nil
}

// SaveSnapshot resolves the month and upserts every non-zero item one by one.
// Only a failure to resolve the month aborts the whole submission.
func (s *Service) SaveSnapshot(ctx context.Context, params SnapshotParams) (*SnapshotResult, error) {
	m, err := s.GetOrCreateMonth(ctx, params.Year, params.Month, params.SnapshotDate)
	if err != nil {
		return nil, fmt.Errorf("resolving month: %w", err)
	}

	result := &SnapshotResult{MonthID: m.ID}

	for _, item := range params.Items {
		if item.Amount.IsZero() {
			result.Skipped++
			continue
		}

		if item.Amount.IsNegative() {
			result.Failures = append(result.Failures, ItemFailure{CategoryID: item.CategoryID, Err: ErrNegativeAmount})
			continue
		}

		v := &Value{MonthID: m.ID, CategoryID: item.CategoryID, Amount: item.Amount}
		if err := s.SaveValue(ctx, v); err != nil {
			slog.WarnContext(ctx, "failed to save value",
				"month_id", m.ID, "category_id", item.CategoryID, "error", err)

			result.Failures = append(result.Failures, ItemFailure{CategoryID: item.CategoryID, Err: err})

			continue
		}

		result.Saved++
	}

	return result, nil
}

func (s *Service) Months(ctx context.Context) ([]*Month, error) {
	return s.repo.ListMonths(ctx)
}

func (s *Service) Rows(ctx context.Context, filter RowFilter) ([]*Row, error) {
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidPeriod, *filter.Month)
	}

	return s.repo.ListRows(ctx, filter)
}

// Summary returns nil without error both when the month has no values and
// when it does not exist at all.
func (s *Service) Summary(ctx context.Context, year, month int) (*Summary, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	return s.repo.MonthlySummary(ctx, year, month)
}

// Dashboard is the summary and per-category breakdown for one month.
type Dashboard struct {
	Summary *Summary
	Rows    []*Row
}

func (s *Service) Dashboard(ctx context.Context, year, month int) (*Dashboard, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	var d Dashboard

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.repo.MonthlySummary(gctx, year, month)
		d.Summary = summary

		return err
	})

	g.Go(func() error {
		rows, err := s.repo.ListRows(gctx, RowFilter{Year: &year, Month: &month})
		d.Rows = rows

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &d, nil
}
