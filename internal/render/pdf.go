package render

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Seller is the business issuing the invoices, printed in the header.
type Seller struct {
	Name          string
	Address       []string
	GSTIN         string
	Contact       string
	Email         string
	PlaceOfSupply string
	Jurisdiction  string
}

// Assets are optional PNG images placed on the document. Missing files are skipped.
type Assets struct {
	LogoPath  string
	StampPath string
}

const (
	pageWidth   = 190.0
	lineHeight  = 5.0
	warrantyTxt = "Warranty: As per manufacturer policy"
	dateLayout  = "02/01/2006"
)

// PDF renders invoices as A4 documents.
type PDF struct {
	seller Seller
	assets Assets
}

func NewPDF(seller Seller, assets Assets) *PDF {
	return &PDF{seller: seller, assets: assets}
}

func (p *PDF) Render(inv *invoice.Invoice, mode invoice.SignatureMode) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	seller, inv := encode(pdf.UnicodeTranslatorFromDescriptor(""), p.seller, inv)
	p = &PDF{seller: seller, assets: p.assets}

	p.header(pdf, inv)
	p.meta(pdf, inv)
	p.parties(pdf, inv)
	p.items(pdf, inv, formatAmount)
	p.totals(pdf, inv, formatAmount)
	p.notes(pdf, inv)
	p.signature(pdf, mode)
	p.taxSummary(pdf, inv, formatAmount)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *PDF) header(pdf *gofpdf.Fpdf, inv *invoice.Invoice) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pageWidth, 8, strings.ToUpper(string(inv.Category)), "", 1, "C", false, 0, "")

	top := pdf.GetY()
	textX := 10.0

	if fileExists(p.assets.LogoPath) {
		pdf.ImageOptions(p.assets.LogoPath, 10, top, 0, 22, false,
			gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")

		textX = 45
	}

	pdf.SetXY(textX, top)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 6, p.seller.Name, "", 2, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)

	for _, line := range p.seller.Address {
		pdf.CellFormat(0, lineHeight-1, line, "", 2, "L", false, 0, "")
	}

	pdf.CellFormat(0, lineHeight-1, "GSTIN: "+p.seller.GSTIN, "", 2, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight-1, fmt.Sprintf("Contact: %s | Email: %s", p.seller.Contact, p.seller.Email), "", 1, "L", false, 0, "")

	if y := top + 24; pdf.GetY() < y {
		pdf.SetY(y)
	}

	pdf.Ln(2)
}

func (p *PDF) meta(pdf *gofpdf.Fpdf, inv *invoice.Invoice) {
	half := pageWidth / 2
	top := pdf.GetY()

	pdf.SetFont("Arial", "", 9)
	pdf.Rect(10, top, pageWidth, 3*lineHeight+2, "D")

	pdf.SetXY(12, top+1)
	labelled(pdf, "Invoice No: ", inv.Number)
	pdf.SetX(12)
	labelled(pdf, "Date: ", inv.Date.Format(dateLayout))
	pdf.SetX(12)
	labelled(pdf, "Due Date: ", inv.DueDate.Format(dateLayout))

	pdf.SetXY(10+half+2, top+1)
	labelled(pdf, "Place of Supply: ", p.seller.PlaceOfSupply)
	pdf.SetX(10 + half + 2)
	labelled(pdf, "Type of Transport: ", "Road")

	pdf.SetY(top + 3*lineHeight + 4)
}

func labelled(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(pdf.GetStringWidth(label), lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, lineHeight, value, "", 1, "L", false, 0, "")
}

func (p *PDF) parties(pdf *gofpdf.Fpdf, inv *invoice.Invoice) {
	half := pageWidth / 2
	top := pdf.GetY()

	billTo := []string{inv.Buyer.Address, "GSTIN: " + inv.Buyer.GSTIN, "State: " + p.seller.PlaceOfSupply}
	if inv.Buyer.StateCode != "" {
		billTo[2] = "State Code: " + inv.Buyer.StateCode
	}

	leftEnd := party(pdf, 10, top, half, "Bill To", inv.Buyer.Name, billTo)
	rightEnd := party(pdf, 10+half, top, half, "Ship To", inv.Buyer.Name, []string{inv.Buyer.Address, billTo[2]})

	pdf.SetY(max(leftEnd, rightEnd) + 3)
}

// party draws an address column and returns the y it ends at.
func party(pdf *gofpdf.Fpdf, x, y, w float64, title, name string, lines []string) float64 {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(w, lineHeight+1, title, "1", 2, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(w, lineHeight, name, "LR", 2, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)

	for _, line := range lines {
		pdf.SetX(x)
		pdf.MultiCell(w, lineHeight, line, "LR", "L", false)
	}

	pdf.SetX(x)
	pdf.CellFormat(w, 1, "", "LRB", 1, "L", false, 0, "")

	return pdf.GetY()
}

var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Item & Description", 78, "L"},
	{"HSN/SAC", 22, "C"},
	{"Qty", 22, "C"},
	{"Rate", 28, "R"},
	{"Amount", 30, "R"},
}

func (p *PDF) items(pdf *gofpdf.Fpdf, inv *invoice.Invoice, amount func(decimal.Decimal) string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)

	for _, col := range itemColumns {
		pdf.CellFormat(col.width, lineHeight+2, col.title, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)

	for i, item := range inv.Items {
		values := []string{
			fmt.Sprint(i + 1),
			item.Description,
			item.HSN,
			item.Quantity.String() + " " + item.Unit,
			amount(item.Rate),
			amount(item.Amount),
		}

		pdf.SetFont("Arial", "", 9)

		for c, col := range itemColumns {
			if c == 1 || c == 5 {
				pdf.SetFont("Arial", "B", 9)
			}

			pdf.CellFormat(col.width, lineHeight+1, values[c], "LR", 0, col.align, false, 0, "")
			pdf.SetFont("Arial", "", 9)
		}

		pdf.Ln(-1)

		if i == 0 {
			pdf.SetFont("Arial", "I", 7)

			for c, col := range itemColumns {
				text := ""
				if c == 1 {
					text = warrantyTxt
				}

				pdf.CellFormat(col.width, lineHeight-1, text, "LR", 0, "L", false, 0, "")
			}

			pdf.Ln(-1)
		}
	}

	for _, col := range itemColumns {
		pdf.CellFormat(col.width, lineHeight*2, "", "LRB", 0, "L", false, 0, "")
	}

	pdf.Ln(-1)
	pdf.Ln(2)
}

func (p *PDF) totals(pdf *gofpdf.Fpdf, inv *invoice.Invoice, amount func(decimal.Decimal) string) {
	const (
		labelW = 40.0
		valueW = 30.0
	)

	x := 10 + pageWidth - labelW - valueW
	top := pdf.GetY()

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Taxable Amount", inv.TaxableValue},
		{"CGST", inv.TotalCGST},
		{"SGST", inv.TotalSGST},
		{"Round Off", inv.RoundOff},
	}

	pdf.SetFont("Arial", "", 9)

	for _, row := range rows {
		pdf.SetX(x)
		pdf.CellFormat(labelW, lineHeight, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, lineHeight, amount(row.value), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)

	for _, label := range []string{"Total", "Balance Due"} {
		pdf.SetX(x)
		pdf.CellFormat(labelW, lineHeight+1, label, "T", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, lineHeight+1, "Rs. "+amount(inv.GrandTotal), "T", 1, "R", false, 0, "")
	}

	// Notes start beside the totals column.
	pdf.SetY(top)
}

func (p *PDF) notes(pdf *gofpdf.Fpdf, inv *invoice.Invoice) {
	const w = 110.0

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(w, lineHeight, "Total In Words:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(w, lineHeight, inv.AmountInWords+" Only", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(w, lineHeight, "Bank Details", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	for _, line := range []string{
		"Bank: " + inv.Bank.BankName,
		"IFSC: " + inv.Bank.IFSC,
		"A/C No: " + inv.Bank.AccountNo,
		"Branch: " + inv.Bank.Branch,
	} {
		pdf.CellFormat(w, lineHeight-1, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(w, lineHeight, "Terms & Conditions", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 7)

	for i, term := range p.terms() {
		pdf.CellFormat(w, lineHeight-1, fmt.Sprintf("%d. %s", i+1, term), "", 1, "L", false, 0, "")
	}
}

func (p *PDF) terms() []string {
	return []string{
		"Goods once sold will not be taken back.",
		"Interest @18% per annum will be charged on over due amount.",
		fmt.Sprintf("Subject to %s Jurisdiction only.", p.seller.Jurisdiction),
	}
}

func (p *PDF) signature(pdf *gofpdf.Fpdf, mode invoice.SignatureMode) {
	const (
		boxW   = 60.0
		stampH = 28.0
	)

	x := 10 + pageWidth - boxW
	top := pdf.GetY() - 20

	if mode == invoice.SignatureDigital && fileExists(p.assets.StampPath) {
		pdf.ImageOptions(p.assets.StampPath, x+boxW/2-stampH/2, top, 0, stampH, false,
			gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}

	pdf.SetXY(x, top+stampH+1)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(boxW, lineHeight, "Authorized Signature", "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (p *PDF) taxSummary(pdf *gofpdf.Fpdf, inv *invoice.Invoice, amount func(decimal.Decimal) string) {
	widths := []float64{30, 35, 20, 25, 20, 25, 35}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)

	for i, title := range []string{"HSN/SAC", "Taxable Value", "CGST Rate", "CGST Amt", "SGST Rate", "SGST Amt", "Total Tax"} {
		pdf.CellFormat(widths[i], lineHeight+1, title, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)

	two := decimal.NewFromInt(2)

	for _, e := range inv.TaxBreakdown {
		half := e.Rate.Div(two).String() + "%"

		for i, v := range []string{e.HSN, amount(e.Taxable), half, amount(e.CGSTAmount), half, amount(e.SGSTAmount), amount(e.TotalTax())} {
			align := "R"
			if i == 0 || i == 2 || i == 4 {
				align = "C"
			}

			pdf.CellFormat(widths[i], lineHeight, v, "1", 0, align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 8)

	for i, v := range []string{"Total", amount(inv.TaxableValue), "", amount(inv.TotalCGST), "", amount(inv.TotalSGST), amount(inv.TotalTax())} {
		align := "R"
		if i == 0 {
			align = "C"
		}

		pdf.CellFormat(widths[i], lineHeight, v, "1", 0, align, false, 0, "")
	}

	pdf.Ln(-1)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
