// Package cart holds the line items of one in-progress transaction.
//
// The cart is a standalone state object with no rendering or persistence
// concerns: the surrounding UI drives it and the checkout flow snapshots
// it. Every operation is total: referencing an absent product id is a
// no-op, never an error, so rapid repeated clicks cannot fail.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tlatasch/pos-terminal/internal/domain/product"
)

// AllowedDiscounts is the enumerated set of discount selectors the
// terminal offers. SetDiscount clamps any other value to the nearest
// member.
var AllowedDiscounts = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.10"),
	decimal.RequireFromString("0.25"),
}

// Line is one product entry in the cart with an aggregated quantity.
// Quantity is always >= 1 while the line is present; a line reaching
// zero is removed, never retained.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Cart is the mutable set of pending line items for one not-yet-finalized
// transaction, keyed by product id with at most one line per product.
//
// A single cashier drives a single cart, but the HTTP listener is
// concurrent, so mutations are serialized by an internal mutex to keep
// the one-writer model intact.
type Cart struct {
	mu       sync.Mutex
	lines    []Line
	discount decimal.Decimal
}

// New returns an empty cart with a zero discount selector.
func New() *Cart {
	return &Cart{discount: decimal.Zero}
}

// AddOrIncrement adds a new line with quantity 1 for the given product,
// or bumps the existing line's quantity by 1. The product is copied;
// the cart never holds a live reference into the catalog.
func (c *Cart) AddOrIncrement(p product.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// Increment bumps the quantity of the line for productID by 1.
// No-op when no such line exists.
func (c *Cart) Increment(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrement lowers the quantity of the line for productID by 1, removing
// the line entirely when it reaches zero. No-op when no such line exists.
func (c *Cart) Decrement(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines[i].Quantity--
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Remove deletes the line for productID regardless of quantity.
// No-op when no such line exists.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties all lines and resets the discount selector to zero.
// Called after a successful commit and on explicit cancel.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.discount = decimal.Zero
}

// SetDiscount sets the pending discount selector, clamping the given
// value to the nearest member of AllowedDiscounts. An out-of-range
// selector is therefore never applied as-is.
func (c *Cart) SetDiscount(d decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.discount = clampDiscount(d)
}

// Discount returns the current discount selector.
func (c *Cart) Discount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.discount
}

// Lines returns a copy of the current line set in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines currently in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

func clampDiscount(d decimal.Decimal) decimal.Decimal {
	nearest := AllowedDiscounts[0]
	best := d.Sub(nearest).Abs()
	for _, allowed := range AllowedDiscounts[1:] {
		if dist := d.Sub(allowed).Abs(); dist.LessThan(best) {
			nearest = allowed
			best = dist
		}
	}
	return nearest
}
