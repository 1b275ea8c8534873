package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the kind of invoice. It selects the numbering sequence and
// whether the invoice counts towards turnover.
type Category string

const (
	CategoryTax      Category = "Tax Invoice"
	CategoryProforma Category = "Proforma Invoice"
)

// SignatureMode controls how the signature box of the printed document is drawn.
type SignatureMode string

const (
	SignaturePhysical SignatureMode = "Physical"
	SignatureDigital  SignatureMode = "Digital"
)

// ParseSignatureMode reads a signature mode, treating anything unrecognised as physical.
func ParseSignatureMode(s string) SignatureMode {
	if SignatureMode(s) == SignatureDigital {
		return SignatureDigital
	}

	return SignaturePhysical
}

// DefaultUnit is used for line items submitted without a unit.
const DefaultUnit = "KW"

// LineItem is a line as typed into the form. Numeric fields are kept as text
// and coerced by the calculator.
type LineItem struct {
	Description string
	HSN         string
	Quantity    string
	Unit        string
	Rate        string
	TaxRate     string
}

// ComputedLineItem is a line item after coercion, with its amount worked out.
type ComputedLineItem struct {
	Description string
	HSN         string
	Unit        string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	TaxRate     decimal.Decimal
	Amount      decimal.Decimal // quantity × rate, 2 dp
}

// TaxBreakdownEntry accumulates all items sharing one HSN/SAC code.
// Amounts are kept at full precision.
type TaxBreakdownEntry struct {
	HSN        string
	Taxable    decimal.Decimal
	Rate       decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
}

// TotalTax is the CGST and SGST of the entry combined.
func (e TaxBreakdownEntry) TotalTax() decimal.Decimal {
	return e.CGSTAmount.Add(e.SGSTAmount)
}

// Buyer is a snapshot of the customer details at the time of issue.
type Buyer struct {
	Name      string
	Address   string
	StateCode string
	GSTIN     string
	Phone     string
}

// BankDetails is printed on the invoice for payment.
type BankDetails struct {
	BankName  string
	IFSC      string
	AccountNo string
	Branch    string
}

// DefaultBankDetails is attached to every invoice unless configuration says otherwise.
var DefaultBankDetails = BankDetails{
	BankName:  "Bank Of Baroda",
	IFSC:      "BARB0VJJETP",
	AccountNo: "80400200003267",
	Branch:    "STAND CHOWK,JETPUR BRANCH",
}

// Invoice is an issued invoice. It is written once and never updated.
type Invoice struct {
	ID            uuid.UUID
	Number        string
	Category      Category
	Date          time.Time
	DueDate       time.Time
	Buyer         Buyer
	Bank          BankDetails
	Items         []ComputedLineItem
	TaxableValue  decimal.Decimal
	TotalCGST     decimal.Decimal
	TotalSGST     decimal.Decimal
	RoundOff      decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountInWords string
	TaxBreakdown  []TaxBreakdownEntry
	CreatedAt     time.Time
}

// TotalTax is the CGST and SGST of the whole invoice combined.
func (inv *Invoice) TotalTax() decimal.Decimal {
	return inv.TotalCGST.Add(inv.TotalSGST)
}

// MonthlyTotal is one bucket of the turnover dashboard.
type MonthlyTotal struct {
	Month    time.Month
	Name     string
	Turnover decimal.Decimal
}
