package view

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type historyState int

const (
	historyStateBrowse historyState = iota
	historyStateConfirmDelete
)

type HistoryModel struct {
	CommonModel
	svc *invoice.Service

	state historyState
	table table.Model
	invs  []*invoice.Invoice
	form  *huh.Form

	typeFilterIdx int
	dateFilterIdx int

	filter  invoice.ListFilter
	loading bool
	err     error
	status  string

	confirmed *bool
}

func NewHistoryModel(svc *invoice.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Number", Width: 12},
		{Title: "Type", Width: 18},
		{Title: "Buyer", Width: 30},
		{Title: "Total", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return HistoryModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m HistoryModel) Title() string { return "Invoice History" }

func (m HistoryModel) ShortHelp() string {
	if m.state == historyStateConfirmDelete {
		return "Confirm | Esc: cancel"
	}

	return "Esc: back | t: type filter | d: date filter | p: save PDF | w: share link | x: delete | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadHistoryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invs = msg.invs
		m.refreshTable()

		return m, nil

	case historyActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		if msg.reload {
			return m, m.loadCmd()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case historyStateBrowse:
		return m.updateBrowse(msg)
	case historyStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m HistoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		case "p":
			if inv := m.selected(); inv != nil {
				return m, m.savePDFCmd(inv)
			}
		case "w":
			if inv := m.selected(); inv != nil {
				return m, m.shareCmd(inv)
			}
		case "x":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invs) {
		return nil
	}

	return m.invs[idx]
}

func (m HistoryModel) enterConfirm() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.confirmed = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("delete").
				Title(fmt.Sprintf("Delete invoice %s?", inv.Number)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = historyStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m HistoryModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveConfirm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	inv := m.selected()
	m = m.leaveConfirm()

	if inv == nil || !*m.confirmed {
		return m, nil
	}

	return m, m.deleteCmd(inv)
}

func (m HistoryModel) leaveConfirm() HistoryModel {
	m.state = historyStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	typeLabels := []string{"All", "Tax Invoice", "Proforma"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == historyStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *HistoryModel) applyFilter(now time.Time) {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Category = new(invoice.CategoryTax)
	case 2:
		m.filter.Category = new(invoice.CategoryProforma)
	default:
		m.filter.Category = nil
	}

	switch m.dateFilterIdx {
	case 1:
		s, e := timeframeToDateRange(TimeframeThisMonth, now)
		s, e = normalizeDateRange(s, e)
		m.filter.StartDate, m.filter.EndDate = &s, &e
	case 2:
		s, e := timeframeToDateRange(TimeframeLastMonth, now)
		s, e = normalizeDateRange(s, e)
		m.filter.StartDate, m.filter.EndDate = &s, &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *HistoryModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invs))
	for _, inv := range m.invs {
		rows = append(rows, table.Row{
			FormatDate(inv.Date),
			inv.Number,
			string(inv.Category),
			inv.Buyer.Name,
			FormatAmount(inv.GrandTotal),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadHistoryMsg struct {
	invs []*invoice.Invoice
	err  error
}

type historyActionMsg struct {
	status string
	reload bool
	err    error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.svc.List(ctx, filter)

		return loadHistoryMsg{invs: invs, err: err}
	}
}

func (m HistoryModel) deleteCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, inv.ID); err != nil {
			return historyActionMsg{err: err, reload: true}
		}

		return historyActionMsg{status: fmt.Sprintf("Deleted %s", inv.Number), reload: true}
	}
}

func (m HistoryModel) savePDFCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.svc.Render(inv, invoice.SignatureDigital)
		if err != nil {
			return historyActionMsg{err: err}
		}

		name := export.Filename(inv)
		if err := os.WriteFile(name, doc, 0o644); err != nil {
			return historyActionMsg{err: err}
		}

		return historyActionMsg{status: "Saved " + name}
	}
}

func (m HistoryModel) shareCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		link, err := m.svc.ShareLink(ctx, inv.ID)
		if err != nil {
			return historyActionMsg{err: err}
		}

		return historyActionMsg{status: "Share: " + link}
	}
}
