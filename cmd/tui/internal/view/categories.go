package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/category"
)

type categoriesState int

const (
	categoriesStateBrowse categoriesState = iota
	categoriesStateAdd
	categoriesStateDeactivate
)

type CategoriesModel struct {
	CommonModel
	categoryService *category.Service

	state      categoriesState
	table      table.Model
	categories []*category.Category
	form       *huh.Form

	loading bool
	err     error
	status  string

	target *category.Category
}

func NewCategoriesModel(svc *category.Service) CategoriesModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 28},
		{Title: "Description", Width: 40},
		{Title: "Created", Width: 12},
	}

	return CategoriesModel{
		categoryService: svc,
		table:           newTable(columns, 12),
		loading:         true,
	}
}

func (m CategoriesModel) Title() string { return "Manage Categories" }
func (m CategoriesModel) ShortHelp() string {
	if m.state != categoriesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | d: deactivate | r: refresh"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.categories = msg.categories
		m.refreshTable()

		return m, nil

	case categorySavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorText(fmt.Sprintf("Error: %v", msg.err))
		}

		m.state = categoriesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	if m.state == categoriesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m CategoriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "d":
			return m.enterDeactivateMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Category Name").
				Placeholder("e.g., XTB Account").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}

					return nil
				}),

			huh.NewText().
				Key("description").
				Title("Description").
				Lines(3),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = categoriesStateAdd
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) enterDeactivateMode() (tea.Model, tea.Cmd) {
	c := m.selected()
	if c == nil {
		return m, nil
	}

	m.target = c
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Deactivate %q?", c.Name)).
				Description("Recorded values are kept.").
				Affirmative("Deactivate").
				Negative("Cancel"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = categoriesStateDeactivate
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = categoriesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == categoriesStateAdd {
		return m, m.addCmd(m.form.GetString("name"), m.form.GetString("description"))
	}

	if !m.form.GetBool("confirm") {
		m.state = categoriesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deactivateCmd(m.target)
}

func (m CategoriesModel) selected() *category.Category {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.categories) {
		return nil
	}

	return m.categories[idx]
}

func (m *CategoriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.categories))
	for _, c := range m.categories {
		rows = append(rows, table.Row{
			fmt.Sprint(c.ID),
			c.Name,
			c.Description,
			FormatDate(c.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m CategoriesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	content := boxed(m.table.View())
	if len(m.categories) == 0 {
		content = lipgloss.NewStyle().Faint(true).Render("No active categories. Press a to add one.")
	}

	if m.state != categoriesStateBrowse && m.form != nil {
		title := "Add Category"
		if m.state == categoriesStateDeactivate {
			title = "Deactivate Category"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type categoriesLoadedMsg struct {
	categories []*category.Category
	err        error
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.categoryService.ListActive(ctx)

		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

type categorySavedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) addCmd(name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.categoryService.Add(ctx, name, description)
		if err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: successText(fmt.Sprintf("Category %q added.", c.Name))}
	}
}

func (m CategoriesModel) deactivateCmd(c *category.Category) tea.Cmd {
	if c == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.categoryService.Deactivate(ctx, c.ID); err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{status: successText(fmt.Sprintf("Category %q deactivated.", c.Name))}
	}
}
