package sqlagent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/folio/internal/database"
)

var (
	ErrNotReadOnly    = errors.New("only a single SELECT or WITH statement is allowed")
	ErrUnknownTable   = errors.New("unknown table")
	ErrEmptyStatement = errors.New("empty statement")
)

const statementTimeout = "15s"

// Executor gives the agent read access to the database. Every query runs in
// a read-only transaction that is always rolled back.
type Executor struct {
	db      *sql.DB
	maxRows int
}

// NewExecutor returns at most maxRows rows per query, and at least one.
func NewExecutor(db *sql.DB, maxRows int) *Executor {
	return &Executor{db: db, maxRows: max(maxRows, 1)}
}

func (e *Executor) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		  AND table_name <> 'schema_migrations'
		ORDER BY table_name
	`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", database.Classify(err))
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// DescribeTable renders the columns of a public table, one per line.
func (e *Executor) DescribeTable(ctx context.Context, name string) (string, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := e.db.QueryContext(ctx, query, name)
	if err != nil {
		return "", fmt.Errorf("describing %s: %w", name, database.Classify(err))
	}
	defer rows.Close()

	var b strings.Builder

	for rows.Next() {
		var column, dataType, nullable string
		if err := rows.Scan(&column, &dataType, &nullable); err != nil {
			return "", fmt.Errorf("scanning column: %w", err)
		}

		fmt.Fprintf(&b, "%s %s", column, dataType)

		if nullable == "NO" {
			b.WriteString(" NOT NULL")
		}

		b.WriteByte('\n')
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("describing %s: %w", name, database.Classify(err))
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s)", name, b.String()), nil
}

// RunQuery executes stmt and renders the result as a text table, keeping at
// most maxRows rows.
func (e *Executor) RunQuery(ctx context.Context, stmt string) (string, error) {
	stmt, err := checkReadOnly(stmt)
	if err != nil {
		return "", err
	}

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return "", fmt.Errorf("starting read-only transaction: %w", database.Classify(err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SET LOCAL statement_timeout = '"+statementTimeout+"'"); err != nil {
		return "", fmt.Errorf("setting statement timeout: %w", database.Classify(err))
	}

	rows, err := tx.QueryContext(ctx, stmt)
	if err != nil {
		return "", fmt.Errorf("running query: %w", database.Classify(err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("reading columns: %w", err)
	}

	var (
		data      [][]string
		truncated bool
	)

	for rows.Next() {
		if len(data) == e.maxRows {
			truncated = true
			break
		}

		values := make([]any, len(columns))
		dest := make([]any, len(columns))

		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return "", fmt.Errorf("scanning row: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}

		data = append(data, row)
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("running query: %w", database.Classify(err))
	}

	return renderTable(columns, data, truncated, e.maxRows), nil
}

func checkReadOnly(stmt string) (string, error) {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSpace(strings.TrimRight(stmt, ";"))

	if stmt == "" {
		return "", ErrEmptyStatement
	}

	if strings.Contains(stmt, ";") {
		return "", ErrNotReadOnly
	}

	first := strings.ToLower(strings.Fields(stmt)[0])
	if first != "select" && first != "with" {
		return "", ErrNotReadOnly
	}

	return stmt, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}

		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func renderTable(columns []string, data [][]string, truncated bool, limit int) string {
	if len(data) == 0 {
		if truncated {
			return fmt.Sprintf("(the query returned rows but none are shown: limit is %d rows)", limit)
		}

		return "(no rows)"
	}

	out := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(data...).
		String()

	if truncated {
		out += fmt.Sprintf("\n(truncated to the first %d rows)", limit)
	}

	return out
}
