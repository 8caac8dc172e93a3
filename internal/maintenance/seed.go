package maintenance

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/folio/internal/category"
)

type Seed struct {
	Name        string
	Description string
}

// DefaultCategories are the starter accounts most portfolios begin with.
var DefaultCategories = []Seed{
	{"coin", "Cryptocurrency investments"},
	{"upstock", "Upstox stock portfolio"},
	{"kite", "Zerodha Kite trading account"},
	{"DCX", "DCX Exchange"},
	{"vest", "Vest investment platform"},
	{"f1", "Fund 1"},
	{"rd", "Recurring Deposit"},
	{"f2", "Fund 2"},
	{"f3", "Fund 3"},
	{"bin", "Binary/Binance"},
	{"pf", "Provident Fund"},
	{"nps", "National Pension Scheme"},
}

type CategoryAdder interface {
	Add(ctx context.Context, name, description string) (*category.Category, error)
}

type SeedFailure struct {
	Name string
	Err  error
}

type SeedReport struct {
	Created  []*category.Category
	Failures []SeedFailure
}

// SeedCategories adds each seed independently. Names that already exist are
// reported as failures like any other error.
func SeedCategories(ctx context.Context, adder CategoryAdder, seeds []Seed) *SeedReport {
	report := &SeedReport{}

	for _, s := range seeds {
		c, err := adder.Add(ctx, s.Name, s.Description)
		if err != nil {
			slog.WarnContext(ctx, "failed to seed category", "name", s.Name, "error", err)
			report.Failures = append(report.Failures, SeedFailure{Name: s.Name, Err: err})

			continue
		}

		report.Created = append(report.Created, c)
	}

	return report
}
