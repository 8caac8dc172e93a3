package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	report     *importer.Report
	reportList list.Model

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Spreadsheet" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "↑/↓: scroll | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateResult {
			var cmd tea.Cmd
			m.reportList, cmd = m.reportList.Update(msg)

			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg)

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.report = msg.report

		saved, failed := msg.report.Totals()
		m.status = fmt.Sprintf("Imported %d values from %d months (%d failed, %s).",
			saved, len(msg.report.Rows), failed, msg.report.Charset)

		items := make([]list.Item, len(msg.report.Rows))
		for i, r := range msg.report.Rows {
			items[i] = rowReportItem{row: r}
		}

		m.reportList = list.New(items, rowReportDelegate{}, 80, 15)
		m.reportList.Title = "Rows"
		m.reportList.SetShowStatusBar(false)
		m.reportList.SetFilteringEnabled(false)
		m.reportList.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.report = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a monthly snapshot CSV (Year;Month;Date;<category>...):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)
	if m.err != nil {
		return style.Render(errorText(m.status) + "\n\n(Esc to go back)")
	}

	parts := []string{successText(m.status)}

	if len(m.report.UnknownCategories) > 0 {
		parts = append(parts, errorText(
			"Columns without a matching category: "+strings.Join(m.report.UnknownCategories, ", "),
		))
	}

	parts = append(parts, "", m.reportList.View())

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Messages

type importResultMsg struct {
	report *importer.Report
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.importService.Import(ctx, f)

		return importResultMsg{report: report, err: err}
	}
}

// Report list item

type rowReportItem struct {
	row importer.RowReport
}

func (i rowReportItem) Title() string       { return FormatPeriod(i.row.Year, i.row.Month) }
func (i rowReportItem) Description() string { return i.row.Error }
func (i rowReportItem) FilterValue() string { return "" }

// Report list delegate

type rowReportDelegate struct{}

func (d rowReportDelegate) Height() int                             { return 1 }
func (d rowReportDelegate) Spacing() int                            { return 0 }
func (d rowReportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowReportDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rowReportItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	line := fmt.Sprintf("%sline %-4d %-16s saved %d, skipped %d, failed %d",
		cursor, item.row.Line, item.Title(), item.row.Saved, item.row.Skipped, item.row.Failed)

	if item.row.Error != "" {
		line = errorText(line + "  " + item.row.Error)
	}

	fmt.Fprintln(w, line)
}
