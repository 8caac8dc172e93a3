package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/category"
	categoryStore "github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/database/dbtest"
	"github.com/MrJamesThe3rd/folio/internal/maintenance"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/folio/internal/portfolio/store"
)

func TestSequenceStatus_OK(t *testing.T) {
	type testCase struct {
		name   string
		status maintenance.SequenceStatus
		want   bool
		next   int64
	}

	tests := []testCase{
		{
			name:   "FreshSequence",
			status: maintenance.SequenceStatus{LastValue: 1, IsCalled: false, MaxID: 0},
			want:   true,
			next:   1,
		},
		{
			name:   "AfterOrdinaryInsert",
			status: maintenance.SequenceStatus{LastValue: 1, IsCalled: true, MaxID: 1},
			want:   true,
			next:   2,
		},
		{
			name:   "AfterReset",
			status: maintenance.SequenceStatus{LastValue: 42, IsCalled: false, MaxID: 41},
			want:   true,
			next:   42,
		},
		{
			name:   "BehindExplicitIDs",
			status: maintenance.SequenceStatus{LastValue: 1, IsCalled: false, MaxID: 41},
			want:   false,
			next:   1,
		},
		{
			name:   "PointsAtUsedID",
			status: maintenance.SequenceStatus{LastValue: 40, IsCalled: true, MaxID: 41},
			want:   false,
			next:   41,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.next, tt.status.NextID())
			assert.Equal(t, tt.want, tt.status.OK())
		})
	}
}

func TestSequences_VerifyAfterOrdinaryInserts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	c := &category.Category{Name: "coin"}
	require.NoError(t, categoryStore.New(db).CreateCategory(ctx, c))

	values := portfolioStore.New(db)

	m := &portfolio.Month{Year: 2025, Month: 1, SnapshotDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, values.FindOrCreateMonth(ctx, m))

	require.NoError(t, values.UpsertValue(ctx, &portfolio.Value{
		MonthID: m.ID, CategoryID: c.ID, Amount: decimal.RequireFromString("500.00"),
	}))

	status, err := maintenance.NewSequences(db).Verify(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsCalled)
	assert.Equal(t, int64(1), status.MaxID)
	assert.True(t, status.OK())
}

func TestSequences_FixAfterExplicitIDs(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	for _, stmt := range []string{
		`INSERT INTO investment_category (category_id, category_name, is_active, created_at) VALUES (1, 'coin', TRUE, NOW())`,
		`INSERT INTO portfolio_month (month_id, year, month, snapshot_date) VALUES (1, 2025, 1, '2025-01-31')`,
		`INSERT INTO portfolio_value (value_id, month_id, category_id, amount, updated_at) VALUES (41, 1, 1, 10, NOW())`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	seqs := maintenance.NewSequences(db)

	before, err := seqs.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, before.OK())
	assert.Equal(t, int64(41), before.MaxID)

	next, err := seqs.Fix(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), next)

	after, err := seqs.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, after.OK())
	assert.Equal(t, int64(42), after.NextID())
}

func TestSequences_EmptyTable(t *testing.T) {
	db := dbtest.Open(t)

	status, err := maintenance.NewSequences(db).Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OK())
	assert.Equal(t, int64(0), status.MaxID)
}
