package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// number accepts a JSON number or string and keeps its text for the calculator
// to coerce.
type number string

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*n = number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected number or string, got %s", data)
		}

		*n = number(num.String())
	}

	return nil
}

type buyerRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	StateCode string `json:"state_code"`
	GSTIN     string `json:"gstin"`
	Phone     string `json:"phone"`
}

type itemRequest struct {
	Description string `json:"description"`
	HSN         string `json:"hsn"`
	Quantity    number `json:"quantity"`
	Unit        string `json:"unit"`
	Rate        number `json:"rate"`
	TaxRate     number `json:"tax_rate"`
}

type createInvoiceRequest struct {
	InvoiceType     invoice.Category `json:"invoice_type"`
	SignatureType   string           `json:"signature_type"`
	CustomInvoiceNo string           `json:"custom_invoice_no"`
	Buyer           buyerRequest     `json:"buyer"`
	Items           []itemRequest    `json:"items"`
}

type emailInvoiceRequest struct {
	createInvoiceRequest
	Email string `json:"email"`
}

func (req createInvoiceRequest) params() invoice.CreateParams {
	items := make([]invoice.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = invoice.LineItem{
			Description: it.Description,
			HSN:         it.HSN,
			Quantity:    string(it.Quantity),
			Unit:        it.Unit,
			Rate:        string(it.Rate),
			TaxRate:     string(it.TaxRate),
		}
	}

	return invoice.CreateParams{
		Number:   strings.TrimSpace(req.CustomInvoiceNo),
		Category: req.InvoiceType,
		Buyer:    invoice.Buyer(req.Buyer),
		Items:    items,
	}
}
