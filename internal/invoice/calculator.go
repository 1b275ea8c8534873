package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

var twoHundred = decimal.NewFromInt(200)

// Bounds on a coerced form value. Anything outside them is treated as not a
// number so that arithmetic on it stays cheap.
const (
	maxExponent = 15
	minExponent = -12
)

var maxMagnitude = decimal.New(1, maxExponent)

// Totals is the outcome of running line items through the tax calculator.
// Sums are unrounded.
type Totals struct {
	Items        []ComputedLineItem
	TaxableValue decimal.Decimal
	TotalCGST    decimal.Decimal
	TotalSGST    decimal.Decimal
	TaxBreakdown []TaxBreakdownEntry
}

// Sum is taxable value plus both tax components, before rounding.
func (t Totals) Sum() decimal.Decimal {
	return t.TaxableValue.Add(t.TotalCGST).Add(t.TotalSGST)
}

// ComputeTotals works out per-item amounts, the CGST/SGST split and the
// per-HSN breakdown. Unparseable numbers count as zero.
//
// The nominal tax rate is always split into two equal halves (intra-state
// supply). When items sharing an HSN code declare different rates, the
// breakdown keeps the rate of the first one seen.
func ComputeTotals(items []LineItem) Totals {
	totals := Totals{
		Items: make([]ComputedLineItem, 0, len(items)),
	}

	index := make(map[string]int)

	for _, item := range items {
		quantity := coerce(item.Quantity)
		rate := coerce(item.Rate)
		taxRate := coerce(item.TaxRate)

		amount := quantity.Mul(rate)
		halfTax := amount.Mul(taxRate).Div(twoHundred)

		totals.TaxableValue = totals.TaxableValue.Add(amount)
		totals.TotalCGST = totals.TotalCGST.Add(halfTax)
		totals.TotalSGST = totals.TotalSGST.Add(halfTax)

		i, ok := index[item.HSN]
		if !ok {
			i = len(totals.TaxBreakdown)
			index[item.HSN] = i
			totals.TaxBreakdown = append(totals.TaxBreakdown, TaxBreakdownEntry{
				HSN:  item.HSN,
				Rate: taxRate,
			})
		}

		entry := &totals.TaxBreakdown[i]
		entry.Taxable = entry.Taxable.Add(amount)
		entry.CGSTAmount = entry.CGSTAmount.Add(halfTax)
		entry.SGSTAmount = entry.SGSTAmount.Add(halfTax)

		unit := item.Unit
		if strings.TrimSpace(unit) == "" {
			unit = DefaultUnit
		}

		totals.Items = append(totals.Items, ComputedLineItem{
			Description: item.Description,
			HSN:         item.HSN,
			Unit:        unit,
			Quantity:    quantity,
			Rate:        rate,
			TaxRate:     taxRate,
			Amount:      amount.Round(2),
		})
	}

	return totals
}

// coerce parses a form value leniently: anything that is not a number, or
// is a number too large or too finely scaled to be an amount, is zero.
func coerce(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return decimal.Zero
	}

	if d.Abs().GreaterThan(maxMagnitude) {
		return decimal.Zero
	}

	return d
}
