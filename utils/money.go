package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a decimal-as-text price from the catalog or cart API.
// Empty or malformed values count as zero, like the storefront always did.
func ParsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders a price with two decimals, e.g. "650.00"
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatCurrency formats an amount like "PKR 1,250.00".
// Uses comma as thousands separator and dot for decimals (en-US).
func FormatCurrency(amount decimal.Decimal, currencyCode string) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	// Pre-allocate: code + sign + digits + separators + decimals
	b.Grow(len(currencyCode) + len(s) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-")
	}
	if currencyCode != "" {
		b.WriteString(currencyCode)
		b.WriteString(" ")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)

	return b.String()
}
