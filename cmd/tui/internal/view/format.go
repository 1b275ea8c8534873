package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats a money amount with two decimals and the currency marker.
func FormatAmount(d decimal.Decimal) string {
	return invoice.CurrencyMarker + " " + d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	activeText  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func activeStyle(s string) string {
	return activeText.Render(s)
}
