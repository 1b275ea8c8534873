package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const barWidth = 40

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

type DashboardModel struct {
	CommonModel
	svc *invoice.Service

	year    int
	totals  []invoice.MonthlyTotal
	loading bool
	err     error
}

func NewDashboardModel(svc *invoice.Service) DashboardModel {
	return DashboardModel{
		svc:     svc,
		year:    time.Now().Year(),
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Turnover" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | ←/→: change year"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		if msg.year != m.year {
			return m, nil
		}

		m.loading = false
		m.totals = msg.totals
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.year--
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.year++
			m.loading = true

			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)
	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Tax Invoice Turnover %d", m.year))

	switch {
	case m.loading:
		return style.Render(title + "\n\nLoading...")
	case m.err != nil:
		return style.Render(title + "\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return style.Render(title + "\n\n" + renderBars(m.totals, barWidth) + "\n\n(←/→ to change year, Esc to back)")
}

// renderBars draws one line per month with a bar proportional to the largest month.
func renderBars(totals []invoice.MonthlyTotal, width int) string {
	peak := decimal.Zero
	sum := decimal.Zero

	for _, t := range totals {
		sum = sum.Add(t.Turnover)
		if t.Turnover.GreaterThan(peak) {
			peak = t.Turnover
		}
	}

	var sb strings.Builder

	for _, t := range totals {
		n := 0
		if peak.IsPositive() {
			n = int(t.Turnover.Mul(decimal.NewFromInt(int64(width))).Div(peak).IntPart())
		}

		fmt.Fprintf(&sb, "%s %s %s\n",
			t.Name,
			barStyle.Render(strings.Repeat("█", n)+strings.Repeat(" ", width-n)),
			FormatAmount(t.Turnover))
	}

	fmt.Fprintf(&sb, "\nYear total: %s", activeStyle(FormatAmount(sum)))

	return sb.String()
}

type dashboardMsg struct {
	year   int
	totals []invoice.MonthlyTotal
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	year := m.year

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		totals, err := m.svc.MonthlyTotals(ctx, year)

		return dashboardMsg{year: year, totals: totals, err: err}
	}
}
