package store_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/category"
	categoryStore "github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/database/dbtest"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
	"github.com/MrJamesThe3rd/folio/internal/portfolio/store"
)

func newCategory(t *testing.T, db *sql.DB, name string) *category.Category {
	t.Helper()

	c := &category.Category{Name: name}
	require.NoError(t, categoryStore.New(db).CreateCategory(context.Background(), c))

	return c
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_FindOrCreateMonth_Idempotent(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	first := &portfolio.Month{Year: 2025, Month: 3, SnapshotDate: day(2025, 3, 15)}
	require.NoError(t, s.FindOrCreateMonth(ctx, first))

	second := &portfolio.Month{Year: 2025, Month: 3, SnapshotDate: day(2025, 3, 28)}
	require.NoError(t, s.FindOrCreateMonth(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	// The later date is discarded; the stored one is reported back.
	assert.Equal(t, "2025-03-15", second.SnapshotDate.Format(time.DateOnly))
}

func TestStore_FindOrCreateMonth_Concurrent(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)

	const workers = 8

	ids := make([]int64, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			m := &portfolio.Month{Year: 2024, Month: 12, SnapshotDate: day(2024, 12, i+1)}
			assert.NoError(t, s.FindOrCreateMonth(context.Background(), m))

			ids[i] = m.ID
		}()
	}

	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	months, err := s.ListMonths(context.Background())
	require.NoError(t, err)
	assert.Len(t, months, 1)
}

func TestStore_UpsertValue_Converges(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	coin := newCategory(t, db, "coin")

	m := &portfolio.Month{Year: 2025, Month: 3, SnapshotDate: day(2025, 3, 15)}
	require.NoError(t, s.FindOrCreateMonth(ctx, m))

	for _, amount := range []string{"500.00", "750.00", "750.00"} {
		v := &portfolio.Value{MonthID: m.ID, CategoryID: coin.ID, Amount: decimal.RequireFromString(amount)}
		require.NoError(t, s.UpsertValue(ctx, v))
	}

	rows, err := s.ListRows(ctx, portfolio.RowFilter{Year: new(2025), Month: new(3)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "coin", rows[0].CategoryName)
	assert.True(t, decimal.RequireFromString("750.00").Equal(rows[0].Amount))
}

func TestStore_UpsertValue_UnknownCategory(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	m := &portfolio.Month{Year: 2025, Month: 1, SnapshotDate: day(2025, 1, 1)}
	require.NoError(t, s.FindOrCreateMonth(ctx, m))

	err := s.UpsertValue(ctx, &portfolio.Value{MonthID: m.ID, CategoryID: 404, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, portfolio.ErrUnknownReference)
}

func TestStore_ValuesSurviveDeactivation(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	kite := newCategory(t, db, "kite")

	m := &portfolio.Month{Year: 2025, Month: 2, SnapshotDate: day(2025, 2, 10)}
	require.NoError(t, s.FindOrCreateMonth(ctx, m))
	require.NoError(t, s.UpsertValue(ctx, &portfolio.Value{
		MonthID: m.ID, CategoryID: kite.ID, Amount: decimal.RequireFromString("1234.56"),
	}))

	require.NoError(t, categoryStore.New(db).Deactivate(ctx, kite.ID))

	rows, err := s.ListRows(ctx, portfolio.RowFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kite", rows[0].CategoryName)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(rows[0].Amount))
}

func TestStore_ListRows_Ordering(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	a := newCategory(t, db, "alpha")
	b := newCategory(t, db, "beta")

	for _, p := range []struct{ y, m int }{{2024, 11}, {2025, 1}, {2024, 12}} {
		month := &portfolio.Month{Year: p.y, Month: p.m, SnapshotDate: day(p.y, time.Month(p.m), 1)}
		require.NoError(t, s.FindOrCreateMonth(ctx, month))

		for _, c := range []*category.Category{b, a} {
			require.NoError(t, s.UpsertValue(ctx, &portfolio.Value{
				MonthID: month.ID, CategoryID: c.ID, Amount: decimal.NewFromInt(10),
			}))
		}
	}

	rows, err := s.ListRows(ctx, portfolio.RowFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, 2025, rows[0].Year)
	assert.Equal(t, "alpha", rows[0].CategoryName)
	assert.Equal(t, "beta", rows[1].CategoryName)
	assert.Equal(t, 12, rows[2].Month)
	assert.Equal(t, 11, rows[5].Month)

	byYear, err := s.ListRows(ctx, portfolio.RowFilter{Year: new(2024)})
	require.NoError(t, err)
	assert.Len(t, byYear, 4)

	byMonth, err := s.ListRows(ctx, portfolio.RowFilter{Month: new(1)})
	require.NoError(t, err)
	assert.Len(t, byMonth, 2)

	months, err := s.ListMonths(ctx)
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, 2025, months[0].Year)
	assert.Equal(t, 12, months[1].Month)
}

func TestStore_MonthlySummary(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	coin := newCategory(t, db, "coin")
	rd := newCategory(t, db, "rd")

	full := &portfolio.Month{Year: 2025, Month: 5, SnapshotDate: day(2025, 5, 31)}
	require.NoError(t, s.FindOrCreateMonth(ctx, full))

	for c, amount := range map[int64]string{coin.ID: "100.25", rd.ID: "899.75"} {
		require.NoError(t, s.UpsertValue(ctx, &portfolio.Value{
			MonthID: full.ID, CategoryID: c, Amount: decimal.RequireFromString(amount),
		}))
	}

	sum, err := s.MonthlySummary(ctx, 2025, 5)
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 2, sum.CategoryCount)
	assert.True(t, decimal.RequireFromString("1000").Equal(sum.Total))
	assert.Equal(t, "2025-05-31", sum.SnapshotDate.Format(time.DateOnly))

	// A month with no values and a month that does not exist look the same.
	empty := &portfolio.Month{Year: 2025, Month: 6, SnapshotDate: day(2025, 6, 30)}
	require.NoError(t, s.FindOrCreateMonth(ctx, empty))

	noValues, err := s.MonthlySummary(ctx, 2025, 6)
	require.NoError(t, err)
	assert.Nil(t, noValues)

	missing, err := s.MonthlySummary(ctx, 1999, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_SaveSnapshot_NoRollbackAcrossItems(t *testing.T) {
	db := dbtest.Open(t)
	svc := portfolio.NewService(store.New(db))
	ctx := context.Background()

	first := newCategory(t, db, "f1")
	third := newCategory(t, db, "f3")

	result, err := svc.SaveSnapshot(ctx, portfolio.SnapshotParams{
		Year:         2025,
		Month:        7,
		SnapshotDate: day(2025, 7, 1),
		Items: []portfolio.ItemAmount{
			{CategoryID: first.ID, Amount: decimal.NewFromInt(1)},
			{CategoryID: 424242, Amount: decimal.NewFromInt(2)},
			{CategoryID: third.ID, Amount: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.Failed())

	rows, err := svc.Rows(ctx, portfolio.RowFilter{Year: new(2025), Month: new(7)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "f1", rows[0].CategoryName)
	assert.Equal(t, "f3", rows[1].CategoryName)
}
