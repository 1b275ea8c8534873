package render

import (
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"123456.789", "1,23,456.79"},
		{"12345678", "1,23,45,678.00"},
		{"-0.37", "-0.37"},
		{"-1234567.1", "-12,34,567.10"},
		{"0.1", "0.10"},
		{"100000000000000.01", "10,00,00,00,00,00,000.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestEncode(t *testing.T) {
	tr := gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")

	inv := &invoice.Invoice{
		Buyer: invoice.Buyer{Name: "Café Müller"},
		Items: []invoice.ComputedLineItem{{Description: "Panel – 5 kW"}},
	}

	seller, out := encode(tr, Seller{Name: "Señor Solar", Address: []string{"Straße 1"}}, inv)

	assert.Equal(t, "CAF\xc9 M\xdcLLER", out.Buyer.Name)
	assert.Equal(t, "Se\xf1or Solar", seller.Name)
	assert.Equal(t, "Stra\xdfe 1", seller.Address[0])
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Panel \x96 5 kW", out.Items[0].Description)

	// The invoice passed in is left untouched.
	assert.Equal(t, "Café Müller", inv.Buyer.Name)
	assert.Equal(t, "Panel – 5 kW", inv.Items[0].Description)
}

func TestPDF_Render_NonLatinBuyer(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Buyer.Name = "Śrī Gaṇeśa Traders"

	doc, err := NewPDF(testSeller(), Assets{}).Render(inv, invoice.SignaturePhysical)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF-"))
	assert.Equal(t, "Śrī Gaṇeśa Traders", inv.Buyer.Name)
}
