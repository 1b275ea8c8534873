package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type buyerResponse struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	StateCode string `json:"state_code,omitempty"`
	GSTIN     string `json:"gstin"`
	Phone     string `json:"phone,omitempty"`
}

type bankResponse struct {
	BankName  string `json:"bank_name"`
	IFSC      string `json:"ifsc"`
	AccountNo string `json:"account_no"`
	Branch    string `json:"branch"`
}

type itemResponse struct {
	Description string `json:"description"`
	HSN         string `json:"hsn"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Rate        string `json:"rate"`
	TaxRate     string `json:"tax_rate"`
	Amount      string `json:"amount"`
}

type taxBreakdownResponse struct {
	HSN        string `json:"hsn"`
	Taxable    string `json:"taxable"`
	Rate       string `json:"rate"`
	CGSTAmount string `json:"cgst_amount"`
	SGSTAmount string `json:"sgst_amount"`
}

type invoiceResponse struct {
	ID            uuid.UUID              `json:"id"`
	InvoiceNo     string                 `json:"invoice_no"`
	InvoiceType   invoice.Category       `json:"invoice_type"`
	Date          time.Time              `json:"date"`
	DueDate       time.Time              `json:"due_date"`
	Buyer         buyerResponse          `json:"buyer"`
	BankDetails   bankResponse           `json:"bank_details"`
	Items         []itemResponse         `json:"items"`
	TaxableValue  string                 `json:"taxable_value"`
	TotalCGST     string                 `json:"total_cgst"`
	TotalSGST     string                 `json:"total_sgst"`
	RoundOff      string                 `json:"round_off"`
	GrandTotal    string                 `json:"grand_total"`
	AmountInWords string                 `json:"amount_in_words"`
	TaxBreakdown  []taxBreakdownResponse `json:"tax_breakdown"`
	CreatedAt     time.Time              `json:"created_at"`
}

type monthlyTotalResponse struct {
	Name     string `json:"name"`
	Turnover string `json:"turnover"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	items := make([]itemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = itemResponse{
			Description: it.Description,
			HSN:         it.HSN,
			Quantity:    it.Quantity.String(),
			Unit:        it.Unit,
			Rate:        it.Rate.String(),
			TaxRate:     it.TaxRate.String(),
			Amount:      it.Amount.StringFixed(2),
		}
	}

	breakdown := make([]taxBreakdownResponse, len(inv.TaxBreakdown))
	for i, e := range inv.TaxBreakdown {
		breakdown[i] = taxBreakdownResponse{
			HSN:        e.HSN,
			Taxable:    e.Taxable.StringFixed(2),
			Rate:       e.Rate.String(),
			CGSTAmount: e.CGSTAmount.StringFixed(2),
			SGSTAmount: e.SGSTAmount.StringFixed(2),
		}
	}

	return invoiceResponse{
		ID:          inv.ID,
		InvoiceNo:   inv.Number,
		InvoiceType: inv.Category,
		Date:        inv.Date,
		DueDate:     inv.DueDate,
		Buyer:       buyerResponse(inv.Buyer),
		BankDetails: bankResponse{
			BankName:  inv.Bank.BankName,
			IFSC:      inv.Bank.IFSC,
			AccountNo: inv.Bank.AccountNo,
			Branch:    inv.Bank.Branch,
		},
		Items:         items,
		TaxableValue:  inv.TaxableValue.StringFixed(2),
		TotalCGST:     inv.TotalCGST.StringFixed(2),
		TotalSGST:     inv.TotalSGST.StringFixed(2),
		RoundOff:      inv.RoundOff.StringFixed(2),
		GrandTotal:    inv.GrandTotal.StringFixed(2),
		AmountInWords: inv.AmountInWords,
		TaxBreakdown:  breakdown,
		CreatedAt:     inv.CreatedAt,
	}
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, 0, len(invs))
	for _, inv := range invs {
		resp = append(resp, toResponse(inv))
	}

	return resp
}
