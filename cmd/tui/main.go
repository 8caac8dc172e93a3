package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/folio/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/folio/internal/category"
	categoryStore "github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/chat"
	"github.com/MrJamesThe3rd/folio/internal/chat/sqlagent"
	"github.com/MrJamesThe3rd/folio/internal/config"
	"github.com/MrJamesThe3rd/folio/internal/database"
	"github.com/MrJamesThe3rd/folio/internal/export"
	"github.com/MrJamesThe3rd/folio/internal/importer"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/folio/internal/portfolio/store"
)

type model struct {
	categoryService  *category.Service
	portfolioService *portfolio.Service
	importService    *importer.Service
	exportService    *export.Service
	chatAdapter      *chat.Adapter
	appName          string

	currentView View
	size        tea.WindowSizeMsg

	dashboardView  view.DashboardModel
	snapshotView   view.SnapshotModel
	categoriesView view.CategoriesModel
	historyView    view.HistoryModel
	chatView       view.ChatModel
	importView     view.ImportModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu       View = 0
	ViewDashboard  View = 1
	ViewSnapshot   View = 2
	ViewCategories View = 3
	ViewHistory    View = 4
	ViewChat       View = 5
	ViewImport     View = 6
	ViewExport     View = 7
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea; only errors reach stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var agent chat.Agent
	if cfg.Chat.APIKey != "" {
		agent = sqlagent.New(sqlagent.Config{
			APIKey:        cfg.Chat.APIKey,
			BaseURL:       cfg.Chat.BaseURL,
			Model:         cfg.Chat.Model,
			MaxIterations: cfg.Chat.MaxIterations,
		}, sqlagent.NewExecutor(db, cfg.Chat.MaxRows))
	}

	catSvc := category.NewService(categoryStore.New(db))
	pfSvc := portfolio.NewService(portfolioStore.New(db))
	impSvc := importer.NewService(catSvc, pfSvc)
	expSvc := export.NewService(pfSvc)
	adapter := chat.NewAdapter(agent)

	return model{
		categoryService:  catSvc,
		portfolioService: pfSvc,
		importService:    impSvc,
		exportService:    expSvc,
		chatAdapter:      adapter,
		appName:          cfg.App.Name,
		currentView:      ViewMenu,
		chatView:         view.NewChatModel(adapter),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewSnapshot:
		var newModel tea.Model
		newModel, cmd = m.snapshotView.Update(msg)
		m.snapshotView = newModel.(view.SnapshotModel)
	case ViewCategories:
		var newModel tea.Model
		newModel, cmd = m.categoriesView.Update(msg)
		m.categoriesView = newModel.(view.CategoriesModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

// updateMenu opens a fresh screen for each selection. The chat screen is kept
// so its session survives leaving and re-entering.
func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewDashboard
		m.dashboardView = view.NewDashboardModel(m.portfolioService)
		cmd = m.dashboardView.Init()
	case "2":
		m.currentView = ViewSnapshot
		m.snapshotView = view.NewSnapshotModel(m.categoryService, m.portfolioService)
		cmd = m.snapshotView.Init()
	case "3":
		m.currentView = ViewCategories
		m.categoriesView = view.NewCategoriesModel(m.categoryService)
		cmd = m.categoriesView.Init()
	case "4":
		m.currentView = ViewHistory
		m.historyView = view.NewHistoryModel(m.portfolioService)
		cmd = m.historyView.Init()
	case "5":
		m.currentView = ViewChat
		cmd = m.chatView.Init()
	case "6":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.importService)
		cmd = m.importView.Init()
	case "7":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService)
		cmd = m.exportView.Init()
	default:
		return m, nil
	}

	if m.size.Width > 0 {
		resize := func() tea.Msg { return m.size }
		cmd = tea.Batch(cmd, resize)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + " Portfolio Tracker\n\n" +
				"1. Dashboard\n" +
				"2. Add Data\n" +
				"3. Manage Categories\n" +
				"4. Portfolio History\n" +
				"5. Portfolio Assistant\n" +
				"6. Import Spreadsheet\n" +
				"7. Export History\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.render(m.dashboardView)
	case ViewSnapshot:
		return m.render(m.snapshotView)
	case ViewCategories:
		return m.render(m.categoriesView)
	case ViewHistory:
		return m.render(m.historyView)
	case ViewChat:
		return m.render(m.chatView)
	case ViewImport:
		return m.render(m.importView)
	case ViewExport:
		return m.render(m.exportView)
	}

	return "Unknown View"
}

func (m model) render(v view.View) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
