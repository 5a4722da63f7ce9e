// Package pricing computes cart totals. Compute is a pure function:
// no state, no rounding, same inputs always yield the same Totals.
// Display rounding to 2 decimal places happens only at the HTTP and
// CSV boundaries.
package pricing

import "github.com/shopspring/decimal"

// Line is the minimal view of a cart line needed to price it.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals holds the derived monetary amounts for one cart snapshot.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountValue decimal.Decimal
	Total         decimal.Decimal
}

// Compute derives subtotal, discount value, and total from the given
// lines and discount fraction (0.10 for 10%). The subtotal is
// order-independent. The total is floored at zero: the enumerated
// selector set cannot exceed 1, but the clamp keeps the function safe
// should the set ever widen.
func Compute(lines []Line, discountPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		subtotal = subtotal.Add(l.UnitPrice.Mul(qty))
	}

	discountValue := subtotal.Mul(discountPercent)

	total := subtotal.Sub(discountValue)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:      subtotal,
		DiscountValue: discountValue,
		Total:         total,
	}
}
