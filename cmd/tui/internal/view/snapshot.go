package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/folio/internal/category"
	"github.com/MrJamesThe3rd/folio/internal/importer"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

const snapshotTimeout = 30 * time.Second

type snapshotState int

const (
	snapshotStateLoading snapshotState = iota
	snapshotStateForm
	snapshotStateSaving
	snapshotStateResult
)

// snapshotEntry holds the form bindings. It lives behind a pointer so the
// form keeps writing to the same storage as the model is copied around.
type snapshotEntry struct {
	year    string
	month   int
	date    string
	amounts []string
}

type SnapshotModel struct {
	CommonModel
	categoryService  *category.Service
	portfolioService *portfolio.Service

	state      snapshotState
	categories []*category.Category
	entry      *snapshotEntry
	form       *huh.Form
	spinner    spinner.Model

	period Period
	result *portfolio.SnapshotResult
	err    error
}

func NewSnapshotModel(categorySvc *category.Service, portfolioSvc *portfolio.Service) SnapshotModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SnapshotModel{
		categoryService:  categorySvc,
		portfolioService: portfolioSvc,
		spinner:          s,
	}
}

func (m SnapshotModel) Title() string { return "Add Monthly Data" }

func (m SnapshotModel) ShortHelp() string {
	switch m.state {
	case snapshotStateForm:
		return "Tab/Enter: next field | Esc: back"
	case snapshotStateResult:
		return "Esc: back | n: new entry"
	}

	return "Esc: back"
}

func (m SnapshotModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCategoriesCmd())
}

func (m SnapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotCategoriesMsg:
		if msg.err != nil {
			m.state = snapshotStateResult
			m.err = msg.err

			return m, nil
		}

		m.categories = msg.categories
		m.entry = newSnapshotEntry(time.Now(), len(msg.categories))
		m.form = m.buildForm()
		m.state = snapshotStateForm

		return m, m.form.Init()

	case snapshotSavedMsg:
		m.state = snapshotStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == snapshotStateResult && msg.String() == "n" {
			m.state = snapshotStateLoading
			m.result = nil
			m.err = nil

			return m, m.Init()
		}
	}

	switch m.state {
	case snapshotStateForm:
		return m.updateForm(msg)
	case snapshotStateLoading, snapshotStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m SnapshotModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params, err := m.entry.params(m.categories)
	if err != nil {
		m.state = snapshotStateResult
		m.err = err

		return m, nil
	}

	m.period = Period{Year: params.Year, Month: params.Month}
	m.state = snapshotStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd(params))
}

func newSnapshotEntry(now time.Time, categories int) *snapshotEntry {
	return &snapshotEntry{
		year:    strconv.Itoa(now.Year()),
		month:   int(now.Month()),
		date:    now.Format(time.DateOnly),
		amounts: make([]string, categories),
	}
}

func (e *snapshotEntry) params(categories []*category.Category) (portfolio.SnapshotParams, error) {
	year, err := strconv.Atoi(strings.TrimSpace(e.year))
	if err != nil {
		return portfolio.SnapshotParams{}, fmt.Errorf("invalid year %q", e.year)
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(e.date))
	if err != nil {
		return portfolio.SnapshotParams{}, fmt.Errorf("invalid snapshot date %q", e.date)
	}

	params := portfolio.SnapshotParams{Year: year, Month: e.month, SnapshotDate: date}

	for i, c := range categories {
		amount, err := parseFormAmount(e.amounts[i])
		if err != nil {
			return portfolio.SnapshotParams{}, fmt.Errorf("%s: %w", c.Name, err)
		}

		params.Items = append(params.Items, portfolio.ItemAmount{CategoryID: c.ID, Amount: amount})
	}

	return params, nil
}

func parseFormAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}

	return importer.ParseAmount(s, true)
}

func (m SnapshotModel) buildForm() *huh.Form {
	months := make([]huh.Option[int], 0, 12)
	for i := 1; i <= 12; i++ {
		months = append(months, huh.NewOption(time.Month(i).String(), i))
	}

	period := huh.NewGroup(
		huh.NewInput().
			Title("Year").
			Value(&m.entry.year).
			Validate(func(s string) error {
				if y, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || y < 1 {
					return errors.New("enter a valid year")
				}

				return nil
			}),

		huh.NewSelect[int]().
			Title("Month").
			Options(months...).
			Value(&m.entry.month),

		huh.NewInput().
			Title("Snapshot Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.entry.date).
			Validate(func(s string) error {
				if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
					return errors.New("use YYYY-MM-DD")
				}

				return nil
			}),
	).Title("Period")

	groups := []*huh.Group{period}

	if len(m.categories) > 0 {
		fields := make([]huh.Field, 0, len(m.categories))
		for i, c := range m.categories {
			fields = append(fields, huh.NewInput().
				Title(c.Name).
				Description(c.Description).
				Placeholder("0.00").
				Value(&m.entry.amounts[i]).
				Validate(func(s string) error {
					_, err := parseFormAmount(s)
					return err
				}),
			)
		}

		groups = append(groups, huh.NewGroup(fields...).Title("Amounts"))
	}

	return huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
}

func (m SnapshotModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case snapshotStateLoading:
		return style.Render(m.spinner.View() + " Loading categories...")
	case snapshotStateForm:
		if len(m.categories) == 0 {
			return style.Render(
				lipgloss.NewStyle().Faint(true).Render("No active categories. Add some in Manage Categories first.") +
					"\n\n" + m.form.View(),
			)
		}

		return style.Render(m.form.View())
	case snapshotStateSaving:
		return style.Render(fmt.Sprintf("%s Saving %s...", m.spinner.View(), m.period))
	case snapshotStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m SnapshotModel) viewResult() string {
	if m.err != nil {
		return errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(n: try again, Esc: back)"
	}

	names := make(map[int64]string, len(m.categories))
	for _, c := range m.categories {
		names[c.ID] = c.Name
	}

	var sb strings.Builder

	sb.WriteString(successText(fmt.Sprintf("Saved %d values for %s.", m.result.Saved, m.period)))
	sb.WriteString(fmt.Sprintf("\nSkipped %d empty amounts.", m.result.Skipped))

	for _, f := range m.result.Failures {
		sb.WriteString("\n" + errorText(fmt.Sprintf("Failed %s: %v", names[f.CategoryID], f.Err)))
	}

	sb.WriteString("\n\n(n: new entry, Esc: back)")

	return sb.String()
}

// Messages

type snapshotCategoriesMsg struct {
	categories []*category.Category
	err        error
}

func (m SnapshotModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.categoryService.ListActive(ctx)

		return snapshotCategoriesMsg{categories: categories, err: err}
	}
}

type snapshotSavedMsg struct {
	result *portfolio.SnapshotResult
	err    error
}

func (m SnapshotModel) saveCmd(params portfolio.SnapshotParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		result, err := m.portfolioService.SaveSnapshot(ctx, params)

		return snapshotSavedMsg{result: result, err: err}
	}
}
