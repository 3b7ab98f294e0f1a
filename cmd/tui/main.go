package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/daftarhq/daftar/cmd/tui/internal/view"
	"github.com/daftarhq/daftar/internal/config"
	"github.com/daftarhq/daftar/internal/database"
	"github.com/daftarhq/daftar/internal/export"
	"github.com/daftarhq/daftar/internal/importer"
	"github.com/daftarhq/daftar/internal/order"
	orderStore "github.com/daftarhq/daftar/internal/order/store"
	"github.com/daftarhq/daftar/internal/summary"
	ledgerview "github.com/daftarhq/daftar/internal/view"
)

type model struct {
	orderService  *order.Service
	importService *importer.Service
	exportService *export.Service
	summarizer    *summary.Summarizer

	projector *ledgerview.Projector
	selection *ledgerview.Selection
	snapshots <-chan []*order.Order

	currentView View

	ordersView view.OrdersModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewOrders View = 1
	ViewImport View = 2
	ViewExport View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := orderStore.New(db)
	orderSvc := order.NewService(store)
	impSvc := importer.NewService()
	expSvc := export.NewService(export.NewHTTPFontSource(cfg.Export.FontURL))
	summarizer := summary.New(summary.Config{
		APIKey: cfg.Summary.APIKey,
		Model:  cfg.Summary.Model,
	})

	projector := ledgerview.NewProjector()
	selection := ledgerview.NewSelection()

	watcher := orderStore.NewWatcher(store, cfg.ConnectionString(), 0)
	snapshots, err := watcher.Watch(context.Background())
	if err != nil {
		slog.Warn("live updates unavailable", "error", err)
	}

	return model{
		orderService:  orderSvc,
		importService: impSvc,
		exportService: expSvc,
		summarizer:    summarizer,
		projector:     projector,
		selection:     selection,
		snapshots:     snapshots,
		currentView:   ViewMenu,
		ordersView:    view.NewOrdersModel(orderSvc, projector, selection),
		importView:    view.NewImportModel(orderSvc, impSvc),
		exportView:    view.NewExportModel(expSvc, summarizer, projector),
	}
}

func (m model) Init() tea.Cmd {
	if m.snapshots == nil {
		return nil
	}

	return view.WaitForSnapshot(m.snapshots)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.SnapshotMsg:
		// The orders view owns the projection; feed it every snapshot no
		// matter which view is on screen, then wait for the next one.
		newModel, _ := m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)

		return m, view.WaitForSnapshot(m.snapshots)

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOrders
				return m, m.ordersView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.orderService, m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.summarizer, m.projector)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
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

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Daftar TUI\n\n" +
				"1. Orders\n" +
				"2. Import Orders\n" +
				"3. Export & Summary\n\n" +
				"q. Quit",
		)
	case ViewOrders:
		return m.ordersView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
