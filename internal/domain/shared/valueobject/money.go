package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the symbol printed in front of monetary amounts
const CurrencySymbol = "R$"

// Hundred is the percentage base
var Hundred = decimal.NewFromInt(100)

// ErrInvalidAmount is returned when an amount string cannot be parsed
var ErrInvalidAmount = errors.New("invalid amount")

// FormatBRL formats an amount as Brazilian currency, e.g. "R$ 1.234,56".
// The amount is rounded half away from zero to two places.
func FormatBRL(amount decimal.Decimal) string {
	return CurrencySymbol + " " + FormatDecimal(amount, 2)
}

// FormatDecimal formats a decimal with pt-BR separators ("." for thousands,
// "," for the fraction) and a fixed number of places.
func FormatDecimal(amount decimal.Decimal, places int32) string {
	s := amount.StringFixed(places)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative && strings.Trim(intPart+fracPart, "0") != "" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if places > 0 {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent formats a percentage value, e.g. 18.54 -> "18,54%"
func FormatPercent(p decimal.Decimal) string {
	return FormatDecimal(p, 2) + "%"
}

// ParseAmount parses amounts typed by people or exported by spreadsheets.
// Accepted forms include "1234.56", "1234,56", "1.234,56", "1,234.56" and
// "R$ 1.234,56". When both separators are present the last one is the
// decimal separator. A single "," is decimal; repeated "," or "." are
// thousands separators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return d, nil
}

// ValidPercentage reports whether p lies in [0, 100]
func ValidPercentage(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(Hundred)
}
