package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/folio/internal/database"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindOrCreateMonth relies on the (year, month) unique constraint: concurrent
// callers for the same period all get the same row back. The no-op update
// makes RETURNING yield the existing row, whose snapshot_date is left as is.
func (s *Store) FindOrCreateMonth(ctx context.Context, m *portfolio.Month) error {
	query := `
		INSERT INTO portfolio_month (year, month, snapshot_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (year, month) DO UPDATE SET year = EXCLUDED.year
		RETURNING month_id, snapshot_date
	`

	err := s.db.QueryRowContext(ctx, query, m.Year, m.Month, m.SnapshotDate).Scan(&m.ID, &m.SnapshotDate)
	if err != nil {
		return fmt.Errorf("resolving month %d-%02d: %w", m.Year, m.Month, database.Classify(err))
	}

	return nil
}

func (s *Store) ListMonths(ctx context.Context) ([]*portfolio.Month, error) {
	query := `
		SELECT month_id, year, month, snapshot_date
		FROM portfolio_month
		ORDER BY year DESC, month DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", database.Classify(err))
	}
	defer rows.Close()

	months := make([]*portfolio.Month, 0)

	for rows.Next() {
		var m portfolio.Month
		if err := rows.Scan(&m.ID, &m.Year, &m.Month, &m.SnapshotDate); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}

		months = append(months, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating months: %w", database.Classify(err))
	}

	return months, nil
}

func (s *Store) UpsertValue(ctx context.Context, v *portfolio.Value) error {
	query := `
		INSERT INTO portfolio_value (month_id, category_id, amount, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (month_id, category_id)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING value_id, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, v.MonthID, v.CategoryID, v.Amount).Scan(&v.ID, &v.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return portfolio.ErrUnknownReference
		}

		return fmt.Errorf("upserting value: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) ListRows(ctx context.Context, filter portfolio.RowFilter) ([]*portfolio.Row, error) {
	query := `
		SELECT pm.year, pm.month, pm.snapshot_date, ic.category_name, pv.amount, pv.updated_at
		FROM portfolio_value pv
		JOIN portfolio_month pm ON pv.month_id = pm.month_id
		JOIN investment_category ic ON pv.category_id = ic.category_id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Year != nil {
		query += fmt.Sprintf(" AND pm.year = $%d", argIdx)

		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.Month != nil {
		query += fmt.Sprintf(" AND pm.month = $%d", argIdx)

		args = append(args, *filter.Month)
	}

	query += " ORDER BY pm.year DESC, pm.month DESC, ic.category_name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing portfolio rows: %w", database.Classify(err))
	}
	defer rows.Close()

	result := make([]*portfolio.Row, 0)

	for rows.Next() {
		var r portfolio.Row
		if err := rows.Scan(&r.Year, &r.Month, &r.SnapshotDate, &r.CategoryName, &r.Amount, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning portfolio row: %w", err)
		}

		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating portfolio rows: %w", database.Classify(err))
	}

	return result, nil
}

// MonthlySummary inner-joins values, so a month without values and a missing
// month both produce no row and a nil summary.
func (s *Store) MonthlySummary(ctx context.Context, year, month int) (*portfolio.Summary, error) {
	query := `
		SELECT pm.year, pm.month, pm.snapshot_date, COUNT(pv.value_id), SUM(pv.amount)
		FROM portfolio_month pm
		JOIN portfolio_value pv ON pv.month_id = pm.month_id
		WHERE pm.year = $1 AND pm.month = $2
		GROUP BY pm.month_id, pm.year, pm.month, pm.snapshot_date
	`

	var (
		sum   portfolio.Summary
		total decimal.NullDecimal
	)

	err := s.db.QueryRowContext(ctx, query, year, month).
		Scan(&sum.Year, &sum.Month, &sum.SnapshotDate, &sum.CategoryCount, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("summarising month %d-%02d: %w", year, month, database.Classify(err))
	}

	sum.Total = total.Decimal

	return &sum, nil
}
