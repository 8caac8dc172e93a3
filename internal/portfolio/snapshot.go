package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemAmount is the amount entered for one category in a snapshot.
type ItemAmount struct {
	CategoryID int64
	Amount     decimal.Decimal
}

// SnapshotParams describes a "save all values for a month" submission.
type SnapshotParams struct {
	Year         int
	Month        int
	SnapshotDate time.Time
	Items        []ItemAmount
}

type ItemFailure struct {
	CategoryID int64
	Err        error
}

// SnapshotResult reports the outcome of every item independently. Failed items
// do not roll back the ones saved before or after them.
type SnapshotResult struct {
	MonthID  int64
	Saved    int
	Skipped  int
	Failures []ItemFailure
}

func (r *SnapshotResult) Failed() int {
	return len(r.Failures)
}

// Stats summarises a set of rows the way the history view shows them.
type Stats struct {
	Records      int
	UniqueMonths int
	Total        decimal.Decimal
}

func ComputeStats(rows []*Row) Stats {
	type period struct{ year, month int }

	seen := make(map[period]struct{})
	total := decimal.Zero

	for _, r := range rows {
		seen[period{r.Year, r.Month}] = struct{}{}
		total = total.Add(r.Amount)
	}

	return Stats{
		Records:      len(rows),
		UniqueMonths: len(seen),
		Total:        total,
	}
}
