// Package core provides money parsing and handling utilities.
//
// Amounts are shopspring decimals so cent values such as 999.99 never pick up
// binary floating-point artifacts. Every helper in this file is total: bad
// input degrades to zero instead of an error, because the values feed reports
// where a missing number beats a failed page. The one exception is
// ParseDecimalToCents, which guards the ingestion boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to every formatted amount.
const CurrencySymbol = "$"

var hundred = decimal.NewFromInt(100)

// FormatAmount renders an amount with two decimals, e.g. "-$1,234.50".
func FormatAmount(amount decimal.Decimal) string {
	return FormatMoney(amount, 2)
}

// FormatMoney renders an amount with thousands separators and the currency
// symbol. Negative values put the sign before the symbol.
func FormatMoney(amount decimal.Decimal, decimals int32) string {
	if decimals < 0 {
		decimals = 0
	}
	s := amount.Round(decimals).Abs().StringFixed(decimals)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.Round(decimals).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(CurrencySymbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// ParseAmount extracts a number from user or import text such as "$1,234.56",
// "-€12.00" or "(45.10)". Unparseable text yields zero; callers that must tell
// "no amount" from a real zero have to check the input themselves.
func ParseAmount(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r), r == '.', r == '-', r == '+':
			return r
		default:
			// currency symbols, thousands separators, spaces
			return -1
		}
	}, s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}

// Round rounds half away from zero at the given number of decimal places.
func Round(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Round(decimals)
}

// PercentOfTotal returns part/total*100, or zero when total is zero.
func PercentOfTotal(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// AmountFromPercent returns percent/100*total.
func AmountFromPercent(percent, total decimal.Decimal) decimal.Decimal {
	return percent.Mul(total).Div(hundred)
}

// Sum adds amounts exactly. The result does not depend on order.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// GroupBy partitions items by key. Each group keeps the input order.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// FromCents converts an integer cent count into an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
