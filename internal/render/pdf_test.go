package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func sampleInvoice(t *testing.T) *invoice.Invoice {
	t.Helper()

	inv, err := invoice.Assemble(invoice.AssembleParams{
		Number:   "MGE-26004",
		Category: invoice.CategoryTax,
		Buyer: invoice.Buyer{
			Name:    "Acme Solar",
			Address: "Plot 12, GIDC, Rajkot",
			GSTIN:   "24AAACA1234A1Z5",
			Phone:   "9876543210",
		},
		Items: []invoice.LineItem{
			{Description: "Mono PERC panel", HSN: "85414011", Quantity: "5", Unit: "KW", Rate: "25000", TaxRate: "5"},
			{Description: "Installation", HSN: "995461", Quantity: "5", Rate: "3000", TaxRate: "18"},
		},
		Now: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return inv
}

func writeStamp(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		img.Set(x, x, color.RGBA{B: 255, A: 255})
	}

	path := filepath.Join(t.TempDir(), "stamp.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))

	return path
}

func testSeller() Seller {
	return Seller{
		Name:          "MEETRA GREEN ENERGY",
		Address:       []string{"Shop No.7 Raiyaraj Complex", "Jetpur"},
		GSTIN:         "24BLAPH1265E1ZP",
		Contact:       "+91 7359227562",
		Email:         "meetragreen@gmail.com",
		PlaceOfSupply: "Gujarat (24)",
		Jurisdiction:  "Jetpur",
	}
}

func TestPDF_Render(t *testing.T) {
	stamp := writeStamp(t)

	tests := []struct {
		name   string
		assets Assets
		mode   invoice.SignatureMode
	}{
		{name: "Physical", mode: invoice.SignaturePhysical},
		{name: "DigitalWithStamp", assets: Assets{StampPath: stamp, LogoPath: stamp}, mode: invoice.SignatureDigital},
		{name: "DigitalMissingStamp", assets: Assets{StampPath: filepath.Join(t.TempDir(), "nope.png")}, mode: invoice.SignatureDigital},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewPDF(testSeller(), tt.assets).Render(sampleInvoice(t), tt.mode)
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
		})
	}
}

func TestPDF_Render_StampOnlyWhenDigital(t *testing.T) {
	stamp := writeStamp(t)
	r := NewPDF(testSeller(), Assets{StampPath: stamp})
	inv := sampleInvoice(t)

	physical, err := r.Render(inv, invoice.SignaturePhysical)
	require.NoError(t, err)

	digital, err := r.Render(inv, invoice.SignatureDigital)
	require.NoError(t, err)

	assert.NotContains(t, string(physical), "/Subtype /Image")
	assert.Contains(t, string(digital), "/Subtype /Image")
}

func TestPDF_Render_NoItems(t *testing.T) {
	inv, err := invoice.Assemble(invoice.AssembleParams{Number: "PI-26-001", Category: invoice.CategoryProforma})
	require.NoError(t, err)

	doc, err := NewPDF(testSeller(), Assets{}).Render(inv, invoice.SignaturePhysical)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestTerms(t *testing.T) {
	terms := NewPDF(Seller{Jurisdiction: "Jetpur"}, Assets{}).terms()

	require.Len(t, terms, 3)
	assert.Equal(t, "Subject to Jetpur Jurisdiction only.", terms[2])
}
