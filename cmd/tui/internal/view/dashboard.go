package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

type DashboardModel struct {
	CommonModel
	portfolioService *portfolio.Service

	period    Period
	table     table.Model
	dashboard *portfolio.Dashboard
	loading   bool
	err       error
}

func NewDashboardModel(svc *portfolio.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Category", Width: 30},
		{Title: "Amount", Width: 16},
		{Title: "Share", Width: 8},
		{Title: "Updated", Width: 12},
	}

	return DashboardModel{
		portfolioService: svc,
		period:           CurrentPeriod(time.Now()),
		table:            newTable(columns, 12),
		loading:          true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | ←/→: month | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.period != m.period {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-16, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.period = m.period.Prev()
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.period = m.period.Next()
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *DashboardModel) refreshTable() {
	if m.dashboard == nil || m.dashboard.Summary == nil {
		m.table.SetRows(nil)
		return
	}

	total := m.dashboard.Summary.Total
	rows := make([]table.Row, 0, len(m.dashboard.Rows))

	for _, r := range m.dashboard.Rows {
		share := "-"
		if total.IsPositive() {
			share = r.Amount.Div(total).Shift(2).StringFixed(1) + "%"
		}

		rows = append(rows, table.Row{
			r.CategoryName,
			FormatAmount(r.Amount),
			share,
			FormatDate(r.UpdatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m DashboardModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("< %s >", m.period))

	var body string

	switch {
	case m.loading:
		body = "Loading..."
	case m.err != nil:
		body = errorText(fmt.Sprintf("Error: %v", m.err))
	case m.dashboard == nil || m.dashboard.Summary == nil:
		body = lipgloss.NewStyle().Faint(true).Render("No data recorded for this month.")
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, m.viewCards(), "", boxed(m.table.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body),
	)
}

func (m DashboardModel) viewCards() string {
	s := m.dashboard.Summary

	card := lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render("Total Value\n"+activeStyle(FormatAmount(s.Total))),
		card.Render(fmt.Sprintf("Categories\n%s", activeStyle(fmt.Sprint(s.CategoryCount)))),
		card.Render("Snapshot Date\n"+activeStyle(FormatDate(s.SnapshotDate))),
	)
}

type dashboardLoadedMsg struct {
	period    Period
	dashboard *portfolio.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	period := m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.portfolioService.Dashboard(ctx, period.Year, period.Month)

		return dashboardLoadedMsg{period: period, dashboard: d, err: err}
	}
}
