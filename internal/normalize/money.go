// Package normalize turns free-text spreadsheet cells into typed values.
// Every function is total: bad input yields an absent value, never an error.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonMoney = regexp.MustCompile(`[^0-9,.\-]`)

// Money parses a locale-tolerant amount. With both separators present the
// comma is a thousands separator; with only a comma it is the decimal mark.
func Money(raw string) decimal.NullDecimal {
	cleaned := nonMoney.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Positive reports whether v holds an amount greater than zero.
func Positive(v decimal.NullDecimal) bool {
	return v.Valid && v.Decimal.IsPositive()
}
