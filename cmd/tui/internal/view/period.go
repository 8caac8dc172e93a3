package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: int(now.Month())}
}

func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}

	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}

	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) String() string {
	return FormatPeriod(p.Year, p.Month)
}

// Range is a predefined or custom history selection.
type Range int

const (
	RangeThisMonth Range = 0
	RangeLastMonth Range = 1
	RangeThisYear  Range = 2
	RangeAll       Range = 3
	RangeCustom    Range = 4
)

func (r Range) String() string {
	switch r {
	case RangeThisMonth:
		return "This Month"
	case RangeLastMonth:
		return "Last Month"
	case RangeThisYear:
		return "This Year"
	case RangeAll:
		return "All Time"
	case RangeCustom:
		return "Custom (YYYY or YYYY-MM)"
	}

	return "Unknown"
}

// Filter turns a predefined range into a row filter relative to now.
func (r Range) Filter(now time.Time) portfolio.RowFilter {
	cur := CurrentPeriod(now)

	switch r {
	case RangeThisMonth:
		return portfolio.RowFilter{Year: new(cur.Year), Month: new(cur.Month)}
	case RangeLastMonth:
		prev := cur.Prev()
		return portfolio.RowFilter{Year: new(prev.Year), Month: new(prev.Month)}
	case RangeThisYear:
		return portfolio.RowFilter{Year: new(cur.Year)}
	}

	return portfolio.RowFilter{}
}

var errBadPeriod = errors.New("enter a year (2025) or a month (2025-03)")

// ParseFilter reads "2025" as a whole year and "2025-03" as a single month.
func ParseFilter(s string) (portfolio.RowFilter, error) {
	s = strings.TrimSpace(s)

	yearPart, monthPart, hasMonth := strings.Cut(s, "-")

	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 {
		return portfolio.RowFilter{}, errBadPeriod
	}

	filter := portfolio.RowFilter{Year: &year}
	if !hasMonth {
		return filter, nil
	}

	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return portfolio.RowFilter{}, errBadPeriod
	}

	filter.Month = &month

	return filter, nil
}

// DescribeFilter renders a row filter for headers.
func DescribeFilter(f portfolio.RowFilter) string {
	switch {
	case f.Year != nil && f.Month != nil:
		return FormatPeriod(*f.Year, *f.Month)
	case f.Year != nil:
		return strconv.Itoa(*f.Year)
	case f.Month != nil:
		return fmt.Sprintf("%s (every year)", time.Month(*f.Month))
	}

	return "All Time"
}

// RangeSelectedMsg is emitted when the user has picked a valid range.
type RangeSelectedMsg struct {
	Filter portfolio.RowFilter
}

type rangeState int

const (
	rangeStateSelect rangeState = iota
	rangeStateCustom
)

// RangePicker is a reusable component for choosing which history to show.
type RangePicker struct {
	state    rangeState
	selected Range
	input    textinput.Model
	err      error
}

func NewRangePicker(initial Range) RangePicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 10
	in.Prompt = "Period: "

	return RangePicker{
		state:    rangeStateSelect,
		selected: initial,
		input:    in,
	}
}

func (m RangePicker) Update(msg tea.Msg) (RangePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == rangeStateCustom {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)

			return m, cmd
		}

		return m, nil
	}

	if m.state == rangeStateCustom {
		return m.updateCustom(keyMsg)
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > RangeThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < RangeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == RangeCustom {
			m.state = rangeStateCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		filter := m.selected.Filter(time.Now())

		return m, func() tea.Msg { return RangeSelectedMsg{Filter: filter} }
	}

	return m, nil
}

func (m RangePicker) updateCustom(msg tea.KeyMsg) (RangePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = rangeStateSelect
		m.err = nil
		m.input.Blur()

		return m, nil
	case tea.KeyEnter:
		filter, err := ParseFilter(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return RangeSelectedMsg{Filter: filter} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m RangePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errorText(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == rangeStateCustom {
		return fmt.Sprintf("Enter Period:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	var sb strings.Builder

	sb.WriteString("Select Period:\n\n")

	for r := RangeThisMonth; r <= RangeCustom; r++ {
		cursor := " "
		label := r.String()

		if m.selected == r {
			cursor = ">"
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}

		sb.WriteString(fmt.Sprintf("%s %s\n", cursor, label))
	}

	sb.WriteString("\n(Enter to select, Esc to back)")

	return sb.String() + errStr
}

// IsSelecting returns true if the picker is on the list rather than the custom input.
func (m RangePicker) IsSelecting() bool {
	return m.state == rangeStateSelect
}

func (m *RangePicker) Reset() {
	m.state = rangeStateSelect
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}
