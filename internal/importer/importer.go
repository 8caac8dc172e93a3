package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/folio/internal/encoding"
)

var (
	ErrInvalidSheet = errors.New("invalid spreadsheet")
	ErrNoHeader     = errors.New("no header row with Year and Month columns found")
)

const (
	colYear  = "year"
	colMonth = "month"
	colDate  = "date"
)

var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006", "02.01.2006"}

// Sheet is a parsed spreadsheet: one entry per month row, with amounts keyed
// by the category column header exactly as written.
type Sheet struct {
	Charset    string
	Categories []string
	Rows       []SheetRow
}

type SheetRow struct {
	Line         int
	Year         int
	Month        int
	SnapshotDate time.Time
	Amounts      map[string]decimal.Decimal
	// Filled counts the non-empty category cells of the row.
	Filled int
	// Err is set when the row could not be read. Year and Month hold whatever
	// was parsed before the failure and nothing from the row is saved.
	Err error
}

// Parse reads a monthly-snapshot spreadsheet exported as CSV. Lines before the
// header are ignored, as are rows with an empty Year cell. A malformed row is
// kept with its Err set; only an unreadable file or a missing header fails the
// whole sheet.
func Parse(r io.Reader) (*Sheet, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	comma := detectDelimiter(string(raw))

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, ErrNoHeader
	}

	sheet := &Sheet{Charset: charset}

	for _, c := range cols.categories {
		sheet.Categories = append(sheet.Categories, c.name)
	}

	for i, row := range rows[headerIdx+1:] {
		line := headerIdx + i + 2

		if cellValue(row, cols.year) == "" {
			continue
		}

		parsed, err := parseRow(cols, row, comma == ';')
		if err != nil {
			parsed.Err = fmt.Errorf("line %d: %w", line, err)
		}

		parsed.Line = line
		parsed.Filled = filledCells(cols, row)
		sheet.Rows = append(sheet.Rows, parsed)
	}

	return sheet, nil
}

type categoryCol struct {
	name string
	idx  int
}

type columns struct {
	year, month, date int
	categories        []categoryCol
}

func findHeader(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		cols := columns{year: -1, month: -1, date: -1}

		for i, cell := range row {
			name := strings.TrimSpace(cell)

			switch strings.ToLower(name) {
			case "":
			case colYear:
				cols.year = i
			case colMonth:
				cols.month = i
			case colDate, "snapshot date", "snapshot_date":
				cols.date = i
			default:
				cols.categories = append(cols.categories, categoryCol{name: name, idx: i})
			}
		}

		if cols.year >= 0 && cols.month >= 0 {
			return cols, rowIdx, true
		}
	}

	return columns{}, 0, false
}

// parseRow returns the fields read so far alongside any error, with Amounts
// left empty on failure.
func parseRow(cols columns, row []string, commaDecimal bool) (SheetRow, error) {
	var out SheetRow

	year, err := strconv.Atoi(cellValue(row, cols.year))
	if err != nil {
		return out, fmt.Errorf("invalid year %q", cellValue(row, cols.year))
	}

	out.Year = year

	month, err := parseMonth(cellValue(row, cols.month))
	if err != nil {
		return out, err
	}

	out.Month = month
	out.SnapshotDate = endOfMonth(year, month)

	if s := cellValue(row, cols.date); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return out, err
		}

		out.SnapshotDate = d
	}

	amounts := make(map[string]decimal.Decimal)

	for _, c := range cols.categories {
		s := cellValue(row, c.idx)
		if isBlank(s) {
			continue
		}

		amount, err := ParseAmount(s, commaDecimal)
		if err != nil {
			return out, fmt.Errorf("column %q: %w", c.name, err)
		}

		amounts[c.name] = amount
	}

	out.Amounts = amounts

	return out, nil
}

func isBlank(cell string) bool {
	return cell == "" || cell == "-"
}

func filledCells(cols columns, row []string) int {
	n := 0

	for _, c := range cols.categories {
		if !isBlank(cellValue(row, c.idx)) {
			n++
		}
	}

	return n
}

// parseMonth accepts a month number or an English month name ("Mar", "March").
func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, s); err == nil {
			return int(t.Month()), nil
		}
	}

	return 0, fmt.Errorf("invalid month %q", s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func endOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// detectDelimiter looks at the header line, or the first non-empty line when
// there is no recognisable header, and picks ';' when it has more semicolons
// than commas.
func detectDelimiter(content string) rune {
	var sample string

	for line := range strings.Lines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if sample == "" {
			sample = line
		}

		if strings.Contains(strings.ToLower(line), colYear) {
			sample = line
			break
		}
	}

	if strings.Count(sample, ";") > strings.Count(sample, ",") {
		return ';'
	}

	return ','
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
