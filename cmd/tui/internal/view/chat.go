package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/folio/internal/chat"
)

const chatTimeout = 2 * time.Minute

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	detailStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
)

type ChatModel struct {
	CommonModel
	adapter *chat.Adapter

	session     *chat.Session
	suggestions []string
	suggestion  int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	asking   bool
	err      error
}

func NewChatModel(adapter *chat.Adapter) ChatModel {
	in := textinput.New()
	in.Placeholder = "Ask me about your portfolio..."
	in.CharLimit = 500
	in.Width = 70
	in.Prompt = "> "
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ChatModel{
		adapter:     adapter,
		session:     chat.NewSession(),
		suggestions: chat.SuggestedQuestions(),
		suggestion:  -1,
		input:       in,
		viewport:    viewport.New(80, 18),
		spinner:     s,
	}
	m.refreshTranscript()

	return m
}

func (m ChatModel) Title() string { return "Portfolio Assistant" }
func (m ChatModel) ShortHelp() string {
	return "Enter: ask | Tab: next suggestion | ctrl+l: clear | Esc: back"
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatAnsweredMsg:
		if msg.session != m.session {
			return m, nil
		}

		m.asking = false
		m.err = msg.err
		m.refreshTranscript()

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-12, 5)
		m.input.Width = max(msg.Width-8, 20)
		m.refreshTranscript()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "ctrl+l":
			m.session = chat.NewSession()
			m.asking = false
			m.err = nil
			m.input.SetValue("")
			m.refreshTranscript()

			return m, nil
		case "tab":
			m.suggestion = (m.suggestion + 1) % len(m.suggestions)
			m.input.SetValue(m.suggestions[m.suggestion])
			m.input.CursorEnd()

			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		case "enter":
			if m.asking || strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}

			question := m.input.Value()
			m.input.SetValue("")
			m.asking = true
			m.err = nil

			return m, tea.Batch(m.spinner.Tick, m.askCmd(m.session, question))
		}
	}

	if m.asking {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *ChatModel) refreshTranscript() {
	m.viewport.SetContent(renderTranscript(m.session.Messages(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func renderTranscript(messages []chat.Message, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width-2, 10))

	var sb strings.Builder

	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		label := assistantStyle.Render("Assistant")
		if msg.Role == chat.RoleUser {
			label = userStyle.Render("You")
		}

		sb.WriteString(label + "\n" + wrap.Render(msg.Content))

		if msg.Error != "" {
			sb.WriteString("\n" + detailStyle.Render(wrap.Render("Details: "+msg.Error)))
		}
	}

	return sb.String()
}

func (m ChatModel) View() string {
	var status string

	switch {
	case m.asking:
		status = m.spinner.View() + " Analyzing your portfolio data..."
	case m.err != nil:
		status = errorText(fmt.Sprintf("Error: %v", m.err))
	case !m.adapter.Ready():
		status = errorText("Chat agent not initialized. Set OPENAI_API_KEY to enable it.")
	case len(m.session.Messages()) == 1:
		status = lipgloss.NewStyle().Faint(true).Render("Press Tab to cycle through suggested questions.")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			boxed(m.viewport.View()),
			status,
			m.input.View(),
		),
	)
}

type chatAnsweredMsg struct {
	session *chat.Session
	err     error
}

func (m ChatModel) askCmd(session *chat.Session, question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		_, err := m.adapter.Ask(ctx, session, question)

		return chatAnsweredMsg{session: session, err: err}
	}
}
