package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// formatAmount prints an amount to two decimals with Indian digit grouping
// (12,34,567.89).
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")

	if len(whole) <= 3 {
		return sign + whole + "." + frac
	}

	head, tail := whole[:len(whole)-3], whole[len(whole)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}

	groups = append([]string{head}, groups...)

	return sign + strings.Join(groups, ",") + "," + tail + "." + frac
}

// encode converts the free text printed on a document into the code page of
// the core fonts. Characters outside it print as dots. The buyer name is
// upper-cased first since case mapping needs UTF-8.
func encode(tr func(string) string, seller Seller, inv *invoice.Invoice) (Seller, *invoice.Invoice) {
	seller.Name = tr(seller.Name)
	seller.Address = translateAll(tr, seller.Address)
	seller.Contact = tr(seller.Contact)
	seller.Email = tr(seller.Email)
	seller.PlaceOfSupply = tr(seller.PlaceOfSupply)
	seller.Jurisdiction = tr(seller.Jurisdiction)

	out := *inv
	out.Number = tr(inv.Number)
	out.Buyer.Name = tr(strings.ToUpper(inv.Buyer.Name))
	out.Buyer.Address = tr(inv.Buyer.Address)
	out.Buyer.GSTIN = tr(inv.Buyer.GSTIN)
	out.Buyer.StateCode = tr(inv.Buyer.StateCode)
	out.Bank.BankName = tr(inv.Bank.BankName)
	out.Bank.Branch = tr(inv.Bank.Branch)

	out.Items = make([]invoice.ComputedLineItem, len(inv.Items))
	for i, item := range inv.Items {
		item.Description = tr(item.Description)
		item.HSN = tr(item.HSN)
		item.Unit = tr(item.Unit)
		out.Items[i] = item
	}

	out.TaxBreakdown = make([]invoice.TaxBreakdownEntry, len(inv.TaxBreakdown))
	for i, entry := range inv.TaxBreakdown {
		entry.HSN = tr(entry.HSN)
		out.TaxBreakdown[i] = entry
	}

	return seller, &out
}

func translateAll(tr func(string) string, lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = tr(line)
	}

	return out
}
