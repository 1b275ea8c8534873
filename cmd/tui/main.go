package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/render"
)

type model struct {
	svc *invoice.Service

	currentView View

	createView    view.CreateModel
	historyView   view.HistoryModel
	dashboardView view.DashboardModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewCreate    View = 1
	ViewHistory   View = 2
	ViewDashboard View = 3
	ViewExport    View = 4
)

func initialModel() (model, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return model{}, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return model{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	renderer := render.NewPDF(render.Seller{
		Name:          cfg.Seller.Name,
		Address:       cfg.Seller.Address,
		GSTIN:         cfg.Seller.GSTIN,
		Contact:       cfg.Seller.Contact,
		Email:         cfg.Seller.Email,
		PlaceOfSupply: cfg.Seller.PlaceOfSupply,
		Jurisdiction:  cfg.Seller.Jurisdiction,
	}, render.Assets{LogoPath: cfg.Assets.LogoPath, StampPath: cfg.Assets.StampPath})

	// Logging stays off so it cannot draw over the terminal UI.
	svc := invoice.NewService(store.New(db),
		invoice.WithLogger(zap.NewNop()),
		invoice.WithBankDetails(cfg.BankDetails()),
		invoice.WithRenderer(renderer))

	return model{
		svc:         svc,
		currentView: ViewMenu,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.svc)

				return m, m.createView.Init()
			case "2":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.svc)

				return m, m.historyView.Init()
			case "3":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svc)

				return m, m.dashboardView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc)

				return m, m.exportView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
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
			"Invoicer\n\n" +
				"1. New Invoice\n" +
				"2. Invoice History\n" +
				"3. Turnover Dashboard\n" +
				"4. Export Invoices\n\n" +
				"q. Quit",
		)
	case ViewCreate:
		return m.createView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	m, err := initialModel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
