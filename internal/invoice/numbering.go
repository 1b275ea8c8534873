package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

const firstSequence = 1

// Prefix returns the numbering prefix of a category for the given year,
// e.g. "MGE-26" for tax invoices and "PI-26-" for proforma invoices in 2026.
func Prefix(category Category, year int) string {
	yy := fmt.Sprintf("%02d", year%100)

	if category == CategoryProforma {
		return "PI-" + yy + "-"
	}

	return "MGE-" + yy
}

// FormatNumber renders a sequence as a full invoice number. Sequences are
// zero-padded to three digits; larger values simply grow.
func FormatNumber(category Category, year, seq int) string {
	return fmt.Sprintf("%s%03d", Prefix(category, year), seq)
}

// ParseSequence extracts the sequence from an invoice number of the given category.
//
// Proforma numbers have three hyphen-separated segments, the last being the
// sequence ("PI-26-007"). Tax invoice numbers carry the two-digit year and the
// sequence together after a single hyphen ("MGE-26004").
func ParseSequence(category Category, number string) (int, error) {
	parts := strings.Split(number, "-")

	var digits string

	switch category {
	case CategoryProforma:
		if len(parts) != 3 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
		}

		digits = parts[2]
	default:
		if len(parts) < 2 || len(parts[1]) <= 2 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
		}

		digits = parts[1][2:]
	}

	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
	}

	return seq, nil
}

// nextNumber derives the number following latest, or the first number of
// the year when latest is empty.
func nextNumber(category Category, year int, latest string) (string, error) {
	if latest == "" {
		return FormatNumber(category, year, firstSequence), nil
	}

	seq, err := ParseSequence(category, latest)
	if err != nil {
		return "", err
	}

	return FormatNumber(category, year, seq+1), nil
}
