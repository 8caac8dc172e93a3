package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrNegativeAmount = errors.New("amount must not be negative")

	ErrUnknownReference = errors.New("unknown month or category")
)

// Month is one recorded snapshot period. There is at most one per (Year, Month).
type Month struct {
	ID           int64
	Year         int
	Month        int
	SnapshotDate time.Time
}

// Value is the amount recorded for one category in one month.
type Value struct {
	ID         int64
	MonthID    int64
	CategoryID int64
	Amount     decimal.Decimal
	UpdatedAt  time.Time
}

// Row is the denormalised Value ⋈ Month ⋈ Category record used for display.
type Row struct {
	Year         int
	Month        int
	SnapshotDate time.Time
	CategoryName string
	Amount       decimal.Decimal
	UpdatedAt    time.Time
}

// Summary aggregates the values recorded for one month.
type Summary struct {
	Year          int
	Month         int
	SnapshotDate  time.Time
	CategoryCount int
	Total         decimal.Decimal
}

type RowFilter struct {
	Year  *int
	Month *int
}

// PersistenceError is returned when a value could not be written. It carries
// the underlying cause so callers can show it to the user.
type PersistenceError struct {
	MonthID    int64
	CategoryID int64
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving value for month %d, category %d: %v", e.MonthID, e.CategoryID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func validatePeriod(year, month int) error {
	if year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}

	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}

	return nil
}
