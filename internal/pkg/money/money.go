package money

import "fmt"

// Amount is a monetary value in the currency's minor unit (kobo, cents).
// All arithmetic stays in integers so sums are exact.
type Amount = int64

// DefaultCurrency is applied when an invoice does not specify one.
const DefaultCurrency = "NGN"

// Line is one priced invoice line: quantity times unit price in minor units.
type Line struct {
	Quantity int64
	Price    Amount
}

// FromDecimal converts a decimal major-unit value to minor units.
// Anything below one minor unit is truncated; callers must pre-round.
func FromDecimal(value float64) Amount {
	return Amount(value * 100)
}

// ToDecimal formats a minor-unit amount as a major-unit string with two decimals.
func ToDecimal(value Amount) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

// Subtotal sums quantity*price across lines.
func Subtotal(lines []Line) Amount {
	var total Amount
	for _, line := range lines {
		total += line.Price * line.Quantity
	}
	return total
}

// Total is subtotal plus tax. Both are recomputed on every read,
// never trusted from stored fields.
func Total(lines []Line, tax Amount) Amount {
	return Subtotal(lines) + tax
}
