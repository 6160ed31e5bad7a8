package account

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money renders d as dollars with thousands separators and two decimals,
// e.g. $12,345.60 or $-600.00. Digits come from the decimal itself, so
// large balances keep every cent.
func Money(d decimal.Decimal) string {
	return "$" + groupThousands(d.StringFixed(2))
}

// Percent renders a fraction as a percentage with two decimals.
func Percent(d decimal.Decimal) string {
	return groupThousands(d.Mul(hundred).StringFixed(2)) + "%"
}

// groupThousands inserts commas into the integer part of a fixed-point
// string such as "-1234567.89".
func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
