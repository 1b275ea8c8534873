package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Item represents a single exported invoice with its local file path.
type Item struct {
	Invoice  *invoice.Invoice
	FilePath string
}

// Service handles the export of stored invoices as documents.
type Service struct {
	invoices *invoice.Service
	mode     invoice.SignatureMode
}

// NewService creates a new export Service. Documents are rendered with the
// given signature mode.
func NewService(invoices *invoice.Service, mode invoice.SignatureMode) *Service {
	return &Service{
		invoices: invoices,
		mode:     mode,
	}
}

// Export renders every invoice matching the filter into the output directory.
// It returns a list of items linking invoices to their rendered files.
func (s *Service) Export(ctx context.Context, filter invoice.ListFilter, outputDir string) ([]Item, error) {
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(invoices))

	for _, inv := range invoices {
		path, err := s.writeDocument(inv, outputDir)
		if err != nil {
			return nil, fmt.Errorf("exporting invoice %s: %w", inv.Number, err)
		}

		items = append(items, Item{Invoice: inv, FilePath: path})
	}

	return items, nil
}

func (s *Service) writeDocument(inv *invoice.Invoice, dir string) (string, error) {
	doc, err := s.invoices.Render(inv, s.mode)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(inv))

	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Filename is the document name of an invoice: its number with anything that
// is not safe in a file name replaced.
func Filename(inv *invoice.Invoice) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, inv.Number)

	return safe + ".pdf"
}

// GenerateSummary creates a plain text listing of the exported items with a
// grand total line.
func (s *Service) GenerateSummary(items []Item) string {
	var (
		sb    strings.Builder
		total decimal.Decimal
	)

	for _, item := range items {
		inv := item.Invoice
		total = total.Add(inv.GrandTotal)

		fileStatus := "Not rendered"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s %s | %s\n",
			inv.Date.Format("2006-01-02"), inv.Number, inv.Category, inv.Buyer.Name,
			invoice.CurrencyMarker, inv.GrandTotal.StringFixed(2), fileStatus)
	}

	fmt.Fprintf(&sb, "\nInvoices: %d | Total: %s %s\n", len(items), invoice.CurrencyMarker, total.StringFixed(2))

	return sb.String()
}
