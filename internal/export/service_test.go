package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestExportService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)

	tmpDir := t.TempDir()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	inv1 := &invoice.Invoice{
		ID:         uuid.New(),
		Number:     "MGE-26001",
		Category:   invoice.CategoryTax,
		Date:       date,
		GrandTotal: decimal.NewFromInt(3540),
	}

	inv2 := &invoice.Invoice{
		ID:         uuid.New(),
		Number:     "PI-26-002",
		Category:   invoice.CategoryProforma,
		Date:       date,
		GrandTotal: decimal.NewFromInt(118),
	}

	filter := invoice.ListFilter{StartDate: &date}

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().ListInvoices(gomock.Any(), filter).Return([]*invoice.Invoice{inv1, inv2}, nil)

	renderer := invoice.NewMockRenderer(ctrl)
	renderer.EXPECT().Render(inv1, invoice.SignatureDigital).Return([]byte("pdf one"), nil)
	renderer.EXPECT().Render(inv2, invoice.SignatureDigital).Return([]byte("pdf two"), nil)

	service := NewService(invoice.NewService(repo, invoice.WithRenderer(renderer)), invoice.SignatureDigital)

	items, err := service.Export(context.Background(), filter, tmpDir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].Invoice != inv1 {
		t.Errorf("expected item 1 to be inv1")
	}

	if filepath.Base(items[0].FilePath) != "MGE-26001.pdf" {
		t.Errorf("expected MGE-26001.pdf, got %s", filepath.Base(items[0].FilePath))
	}

	content1, _ := os.ReadFile(items[0].FilePath)
	if string(content1) != "pdf one" {
		t.Errorf("file content mismatch")
	}

	if filepath.Base(items[1].FilePath) != "PI-26-002.pdf" {
		t.Errorf("expected PI-26-002.pdf, got %s", filepath.Base(items[1].FilePath))
	}
}

func TestExportService_Export_RenderError(t *testing.T) {
	ctrl := gomock.NewController(t)

	inv := &invoice.Invoice{Number: "MGE-26001"}

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().ListInvoices(gomock.Any(), gomock.Any()).Return([]*invoice.Invoice{inv}, nil)

	renderer := invoice.NewMockRenderer(ctrl)
	renderer.EXPECT().Render(inv, invoice.SignaturePhysical).Return(nil, errors.New("font missing"))

	service := NewService(invoice.NewService(repo, invoice.WithRenderer(renderer)), invoice.SignaturePhysical)

	_, err := service.Export(context.Background(), invoice.ListFilter{}, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "MGE-26001") {
		t.Fatalf("expected error naming the invoice, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	got := Filename(&invoice.Invoice{Number: "MGE/26 001"})
	if got != "MGE_26_001.pdf" {
		t.Errorf("expected MGE_26_001.pdf, got %s", got)
	}
}

func TestService_GenerateSummary(t *testing.T) {
	s := &Service{}

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{
			Invoice: &invoice.Invoice{
				Date:       date,
				Number:     "MGE-26001",
				Category:   invoice.CategoryTax,
				Buyer:      invoice.Buyer{Name: "Acme Solar"},
				GrandTotal: decimal.NewFromInt(3540),
			},
			FilePath: "/tmp/MGE-26001.pdf",
		},
		{
			Invoice: &invoice.Invoice{
				Date:       date,
				Number:     "PI-26-002",
				Category:   invoice.CategoryProforma,
				Buyer:      invoice.Buyer{Name: "Sun Farms"},
				GrandTotal: decimal.NewFromInt(118),
			},
		},
	}

	body := s.GenerateSummary(items)

	expectedSubstrings := []string{
		"2026-03-15 | MGE-26001 | Tax Invoice | Acme Solar | INR 3540.00 | MGE-26001.pdf",
		"2026-03-15 | PI-26-002 | Proforma Invoice | Sun Farms | INR 118.00 | Not rendered",
		"Invoices: 2 | Total: INR 3658.00",
	}

	for _, sub := range expectedSubstrings {
		if !strings.Contains(body, sub) {
			t.Errorf("expected body to contain %q", sub)
		}
	}
}
