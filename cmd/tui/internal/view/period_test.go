package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/cmd/tui/internal/view"
)

func TestPeriod_PrevNext(t *testing.T) {
	jan := view.Period{Year: 2025, Month: 1}

	assert.Equal(t, view.Period{Year: 2024, Month: 12}, jan.Prev())
	assert.Equal(t, view.Period{Year: 2025, Month: 2}, jan.Next())
	assert.Equal(t, jan, jan.Prev().Next())
	assert.Equal(t, "January 2025", jan.String())
}

func TestRange_Filter(t *testing.T) {
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	last := view.RangeLastMonth.Filter(now)
	require.NotNil(t, last.Year)
	require.NotNil(t, last.Month)
	assert.Equal(t, 2024, *last.Year)
	assert.Equal(t, 12, *last.Month)

	year := view.RangeThisYear.Filter(now)
	require.NotNil(t, year.Year)
	assert.Equal(t, 2025, *year.Year)
	assert.Nil(t, year.Month)

	all := view.RangeAll.Filter(now)
	assert.Nil(t, all.Year)
	assert.Nil(t, all.Month)
}

func TestParseFilter(t *testing.T) {
	type testCase struct {
		name      string
		input     string
		wantYear  int
		wantMonth int
		wantErr   bool
	}

	tests := []testCase{
		{name: "Year", input: "2025", wantYear: 2025},
		{name: "Month", input: " 2025-03 ", wantYear: 2025, wantMonth: 3},
		{name: "MonthOutOfRange", input: "2025-13", wantErr: true},
		{name: "NotANumber", input: "march", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := view.ParseFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, f.Year)
			assert.Equal(t, tt.wantYear, *f.Year)

			if tt.wantMonth == 0 {
				assert.Nil(t, f.Month)
				return
			}

			require.NotNil(t, f.Month)
			assert.Equal(t, tt.wantMonth, *f.Month)
		})
	}
}

func TestDescribeFilter(t *testing.T) {
	f, err := view.ParseFilter("2025-03")
	require.NoError(t, err)

	assert.Equal(t, "March 2025", view.DescribeFilter(f))

	f.Month = nil
	assert.Equal(t, "2025", view.DescribeFilter(f))
}
