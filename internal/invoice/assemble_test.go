package invoice_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/words"
)

var issuedAt = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestAssemble(t *testing.T) {
	type want struct {
		taxable    string
		cgst       string
		sgst       string
		grandTotal string
		roundOff   string
		words      string
	}

	tests := []struct {
		name  string
		items []invoice.LineItem
		want  want
	}{
		{
			name: "WholeTotal",
			items: []invoice.LineItem{
				{HSN: "995461", Quantity: "3", Rate: "1000", TaxRate: "18"},
			},
			want: want{
				taxable:    "3000.00",
				cgst:       "270.00",
				sgst:       "270.00",
				grandTotal: "3540.00",
				roundOff:   "0.00",
				words:      "INR Three Thousand Five Hundred Forty",
			},
		},
		{
			name: "RoundsUp",
			items: []invoice.LineItem{
				{HSN: "995461", Quantity: "3", Rate: "1000", TaxRate: "18"},
				{HSN: "9997", Quantity: "1", Rate: "0.60", TaxRate: "0"},
			},
			want: want{
				taxable:    "3000.60",
				cgst:       "270.00",
				sgst:       "270.00",
				grandTotal: "3541.00",
				roundOff:   "0.40",
				words:      "INR Three Thousand Five Hundred Forty One",
			},
		},
		{
			name: "RoundsDown",
			items: []invoice.LineItem{
				{HSN: "995461", Quantity: "3", Rate: "1000", TaxRate: "18"},
				{HSN: "9997", Quantity: "1", Rate: "0.37", TaxRate: "0"},
			},
			want: want{
				taxable:    "3000.37",
				cgst:       "270.00",
				sgst:       "270.00",
				grandTotal: "3540.00",
				roundOff:   "-0.37",
				words:      "INR Three Thousand Five Hundred Forty",
			},
		},
		{
			name: "HalfGoesUp",
			items: []invoice.LineItem{
				{HSN: "9997", Quantity: "1", Rate: "100.50", TaxRate: "0"},
			},
			want: want{
				taxable:    "100.50",
				cgst:       "0.00",
				sgst:       "0.00",
				grandTotal: "101.00",
				roundOff:   "0.50",
				words:      "INR One Hundred One",
			},
		},
		{
			name:  "NoItems",
			items: nil,
			want: want{
				taxable:    "0.00",
				cgst:       "0.00",
				sgst:       "0.00",
				grandTotal: "0.00",
				roundOff:   "0.00",
				words:      "INR Zero",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := invoice.Assemble(invoice.AssembleParams{
				Number:   "MGE-26001",
				Category: invoice.CategoryTax,
				Buyer:    invoice.Buyer{Name: "Acme Solar"},
				Items:    tt.items,
				Now:      issuedAt,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want.taxable, inv.TaxableValue.StringFixed(2))
			assert.Equal(t, tt.want.cgst, inv.TotalCGST.StringFixed(2))
			assert.Equal(t, tt.want.sgst, inv.TotalSGST.StringFixed(2))
			assert.Equal(t, tt.want.grandTotal, inv.GrandTotal.StringFixed(2))
			assert.Equal(t, tt.want.roundOff, inv.RoundOff.StringFixed(2))
			assert.Equal(t, tt.want.words, inv.AmountInWords)
		})
	}
}

func TestAssemble_Defaults(t *testing.T) {
	inv, err := invoice.Assemble(invoice.AssembleParams{
		Number: "MGE-26001",
		Items:  []invoice.LineItem{{HSN: "1", Quantity: "1", Rate: "1", TaxRate: "5"}},
		Now:    issuedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, invoice.CategoryTax, inv.Category)
	assert.Equal(t, invoice.DefaultBankDetails, inv.Bank)
	assert.Equal(t, issuedAt, inv.Date)
	assert.Equal(t, issuedAt, inv.DueDate)
	assert.Equal(t, "MGE-26001", inv.Number)
}

func TestAssemble_Invariants(t *testing.T) {
	itemSets := [][]invoice.LineItem{
		{{HSN: "a", Quantity: "7", Rate: "333.33", TaxRate: "12"}},
		{{HSN: "a", Quantity: "1.5", Rate: "999.99", TaxRate: "18"}, {HSN: "b", Quantity: "4", Rate: "12.49", TaxRate: "5"}},
		{{HSN: "a", Quantity: "0.333", Rate: "0.77", TaxRate: "28"}},
		{{HSN: "a", Quantity: "10", Rate: "24999.95", TaxRate: "5"}, {HSN: "a", Quantity: "10", Rate: "3100.05", TaxRate: "18"}},
	}

	one := decimal.NewFromInt(1)

	for _, items := range itemSets {
		inv, err := invoice.Assemble(invoice.AssembleParams{Items: items, Now: issuedAt})
		require.NoError(t, err)

		raw := invoice.ComputeTotals(items).Sum()

		assert.True(t, inv.GrandTotal.IsInteger(), "grand total %s", inv.GrandTotal)
		assert.True(t, inv.RoundOff.Abs().LessThan(one), "round off %s", inv.RoundOff)
		assert.True(t, inv.RoundOff.Equal(inv.GrandTotal.Sub(raw).Round(2)))
		assert.True(t, inv.TotalCGST.Equal(inv.TotalSGST))
		assert.True(t, strings.HasPrefix(inv.AmountInWords, invoice.CurrencyMarker+" "))
		assert.NotContains(t, inv.AmountInWords, "Paise")
	}
}

func TestAssemble_OutOfRange(t *testing.T) {
	_, err := invoice.Assemble(invoice.AssembleParams{
		Items: []invoice.LineItem{
			{HSN: "1", Quantity: "1e15", Rate: "1e15", TaxRate: "1e15"},
		},
		Now: issuedAt,
	})

	require.ErrorIs(t, err, words.ErrOutOfRange)
	assert.Equal(t, "amount in words: number out of range", err.Error())
}
