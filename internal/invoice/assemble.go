package invoice

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/words"
)

// CurrencyMarker prefixes the amount in words.
const CurrencyMarker = "INR"

var (
	half     = decimal.New(5, -1)
	maxWhole = decimal.NewFromInt(math.MaxInt64)
)

type AssembleParams struct {
	Number   string
	Category Category
	Buyer    Buyer
	Items    []LineItem
	Bank     BankDetails
	Now      time.Time
}

// Assemble builds an invoice ready to be stored. The grand total is rounded
// half-up to a whole rupee and the difference is recorded as the round-off.
func Assemble(params AssembleParams) (*Invoice, error) {
	totals := ComputeTotals(params.Items)

	raw := totals.Sum()
	grandTotal := raw.Add(half).Floor()

	if grandTotal.Abs().GreaterThan(maxWhole) {
		return nil, fmt.Errorf("amount in words: %w", words.ErrOutOfRange)
	}

	inWords, err := words.Indian(grandTotal.IntPart())
	if err != nil {
		return nil, fmt.Errorf("amount in words: %w", err)
	}

	category := params.Category
	if category == "" {
		category = CategoryTax
	}

	bank := params.Bank
	if bank == (BankDetails{}) {
		bank = DefaultBankDetails
	}

	return &Invoice{
		Number:        params.Number,
		Category:      category,
		Date:          params.Now,
		DueDate:       params.Now,
		Buyer:         params.Buyer,
		Bank:          bank,
		Items:         totals.Items,
		TaxableValue:  totals.TaxableValue.Round(2),
		TotalCGST:     totals.TotalCGST.Round(2),
		TotalSGST:     totals.TotalSGST.Round(2),
		RoundOff:      grandTotal.Sub(raw).Round(2),
		GrandTotal:    grandTotal,
		AmountInWords: CurrencyMarker + " " + inWords,
		TaxBreakdown:  totals.TaxBreakdown,
	}, nil
}
