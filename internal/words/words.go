// Package words spells whole numbers in Indian English, grouping by
// thousand, lakh and crore.
package words

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrOutOfRange = errors.New("number out of range")

var ones = [...]string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

type scale struct {
	value int64
	name  string
}

// Larger scales first. Crore repeats for anything above it
// ("one hundred crore", "one lakh crore").
var scales = []scale{
	{10_000_000, "crore"},
	{100_000, "lakh"},
	{1_000, "thousand"},
	{100, "hundred"},
}

// Indian spells n with each word capitalised, e.g. 125000 → "One Lakh Twenty Five Thousand".
func Indian(n int64) (string, error) {
	if n == math.MinInt64 {
		return "", ErrOutOfRange
	}

	if n == 0 {
		return "Zero", nil
	}

	var parts []string
	if n < 0 {
		parts = append(parts, "minus")
		n = -n
	}

	parts = spell(n, parts)

	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(parts, " ")), nil
}

func spell(n int64, parts []string) []string {
	for _, s := range scales {
		if n >= s.value {
			parts = spell(n/s.value, parts)
			parts = append(parts, s.name)
			n %= s.value
		}
	}

	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, ones[n])
	default:
		parts = append(parts, tens[n/10])
		if n%10 != 0 {
			parts = append(parts, ones[n%10])
		}
	}

	return parts
}
