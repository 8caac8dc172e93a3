package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type historyState int

const (
	historyStateBrowse historyState = iota
	historyStatePick
)

type HistoryModel struct {
	CommonModel
	portfolioService *portfolio.Service

	state  historyState
	picker RangePicker
	table  table.Model
	rows   []*portfolio.Row
	stats  portfolio.Stats

	filter  portfolio.RowFilter
	loading bool
	err     error
}

func NewHistoryModel(svc *portfolio.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Period", Width: 16},
		{Title: "Snapshot", Width: 12},
		{Title: "Category", Width: 28},
		{Title: "Amount", Width: 16},
		{Title: "Updated", Width: 12},
	}

	return HistoryModel{
		portfolioService: svc,
		picker:           NewRangePicker(RangeAll),
		table:            newTable(columns, 15),
		loading:          true,
	}
}

func (m HistoryModel) Title() string { return "Portfolio History" }
func (m HistoryModel) ShortHelp() string {
	if m.state == historyStatePick {
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | f: filter | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.rows
		m.stats = portfolio.ComputeStats(msg.rows)
		m.refreshTable()

		return m, nil

	case RangeSelectedMsg:
		m.filter = msg.Filter
		m.state = historyStateBrowse
		m.picker.Reset()
		m.table.Focus()
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	if m.state == historyStatePick {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = historyStateBrowse
			m.table.Focus()

			return m, nil
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.state = historyStatePick
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *HistoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, table.Row{
			FormatPeriod(r.Year, r.Month),
			FormatDate(r.SnapshotDate),
			r.CategoryName,
			FormatAmount(r.Amount),
			FormatDate(r.UpdatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) View() string {
	if m.state == historyStatePick {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading history...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Filter: [f] %s", activeStyle(DescribeFilter(m.filter)))

	stats := fmt.Sprintf("Records: %s | Months: %s | Total: %s",
		activeStyle(fmt.Sprint(m.stats.Records)),
		activeStyle(fmt.Sprint(m.stats.UniqueMonths)),
		activeStyle(FormatAmount(m.stats.Total)),
	)

	body := boxed(m.table.View())
	if len(m.rows) == 0 {
		body = lipgloss.NewStyle().Faint(true).Render("No values recorded for this period.")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			body,
			"",
			stats,
		),
	)
}

type historyLoadedMsg struct {
	rows []*portfolio.Row
	err  error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := m.portfolioService.Rows(ctx, filter)

		return historyLoadedMsg{rows: rows, err: err}
	}
}
