// Package currency formats and rounds Angolan Kwanza amounts.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol is the local Kwanza symbol appended by Format.
const Symbol = "Kz"

var (
	// Code is the ISO 4217 unit every storefront amount is expressed in.
	Code = currency.MustParseISO("AOA")

	locale = language.MustParse("pt-AO")
	scale  = minorUnits()

	decimalSep = localDecimalSeparator()
)

func minorUnits() int32 {
	s, _ := currency.Standard.Rounding(Code)
	return int32(s)
}

// Scale is the number of decimal places of the currency.
func Scale() int32 {
	return scale
}

// Round rounds amount to the currency minor unit, half away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(scale)
}

// Format renders amount with pt-AO grouping and decimal separators,
// e.g. 5219.98 -> "5 219,98 Kz" (non-breaking spaces). The integer part is
// grouped as an int64 and the minor units are taken from the decimal
// string, so no float conversion is involved.
func Format(amount decimal.Decimal) string {
	r := Round(amount)
	whole := r.Truncate(0)

	p := message.NewPrinter(locale)
	var b strings.Builder
	if r.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(p.Sprint(number.Decimal(whole.Abs().IntPart())))
	if scale > 0 {
		frac := r.Sub(whole).Abs().StringFixed(scale)
		b.WriteString(decimalSep)
		b.WriteString(frac[strings.IndexByte(frac, '.')+1:])
	}
	b.WriteString("\u00a0" + Symbol)
	return b.String()
}

// localDecimalSeparator asks the locale how it writes 1.5.
func localDecimalSeparator() string {
	s := message.NewPrinter(locale).Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
}
