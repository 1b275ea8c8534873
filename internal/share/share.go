// Package share builds links that hand an invoice over to a chat app.
package share

import (
	"errors"
	"net/url"
	"strings"
)

const (
	whatsAppBase = "https://web.whatsapp.com/send"
	countryCode  = "91"
)

var ErrNoPhone = errors.New("buyer has no phone number")

// WhatsAppURL opens a chat with phone, prefilled with a note about the invoice.
// Only the digits of phone are kept; a leading country code is not repeated.
func WhatsAppURL(phone, invoiceNo string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, phone)

	if digits == "" {
		return "", ErrNoPhone
	}

	if len(digits) == 10 {
		digits = countryCode + digits
	}

	q := url.Values{}
	q.Set("phone", digits)
	q.Set("text", "Please find attached invoice "+invoiceNo)

	return whatsAppBase + "?" + q.Encode(), nil
}
