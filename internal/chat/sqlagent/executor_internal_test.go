package sqlagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadOnly(t *testing.T) {
	type testCase struct {
		name    string
		stmt    string
		want    string
		wantErr error
	}

	tests := []testCase{
		{name: "Select", stmt: "SELECT 1", want: "SELECT 1"},
		{name: "LowercaseWithTrailingSemicolon", stmt: "  select * from portfolio_month; ", want: "select * from portfolio_month"},
		{name: "CTE", stmt: "WITH t AS (SELECT 1) SELECT * FROM t", want: "WITH t AS (SELECT 1) SELECT * FROM t"},
		{name: "Empty", stmt: " ; ", wantErr: ErrEmptyStatement},
		{name: "Delete", stmt: "DELETE FROM portfolio_value", wantErr: ErrNotReadOnly},
		{name: "Stacked", stmt: "SELECT 1; DROP TABLE portfolio_value", wantErr: ErrNotReadOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkReadOnly(tt.stmt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "750.00", formatValue([]byte("750.00")))
	assert.Equal(t, "2025-03-15", formatValue(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-15T10:30:00Z", formatValue(time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "42", formatValue(int64(42)))
}

func TestRenderTable(t *testing.T) {
	assert.Equal(t, "(no rows)", renderTable([]string{"a"}, nil, false, 10))

	out := renderTable([]string{"category_name", "amount"}, [][]string{{"coin", "500.00"}, {"kite", "750.00"}}, true, 2)
	assert.Contains(t, out, "category_name")
	assert.Contains(t, out, "kite")
	assert.Contains(t, out, "750.00")
	assert.Contains(t, out, "(truncated to the first 2 rows)")

	empty := renderTable([]string{"a"}, nil, true, 0)
	assert.NotEqual(t, "(no rows)", empty)
	assert.Contains(t, empty, "none are shown")
}

func TestNewExecutor_RowLimitAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, NewExecutor(nil, 0).maxRows)
	assert.Equal(t, 1, NewExecutor(nil, -5).maxRows)
	assert.Equal(t, 200, NewExecutor(nil, 200).maxRows)
}
