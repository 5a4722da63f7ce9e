package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlatasch/pos-terminal/internal/domain/product"
)

func testProduct(id, name, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Food",
		Active:   true,
	}
}

func TestAddOrIncrement(t *testing.T) {
	c := New()
	p := testProduct("p1", "Chapati", "7.00")

	c.AddOrIncrement(p)
	c.AddOrIncrement(p)
	c.AddOrIncrement(testProduct("p2", "Cola", "2.50"))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "p2", lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAddOrIncrement_CopiesProductData(t *testing.T) {
	c := New()
	p := testProduct("p1", "Chapati", "7.00")
	c.AddOrIncrement(p)

	// Catalog edits after the fact must not leak into the cart.
	p.Name = "Renamed"
	p.Price = decimal.RequireFromString("99.00")

	lines := c.Lines()
	assert.Equal(t, "Chapati", lines[0].Name)
	assert.True(t, decimal.RequireFromString("7.00").Equal(lines[0].UnitPrice))
}

func TestIncrementDecrement(t *testing.T) {
	c := New()
	c.AddOrIncrement(testProduct("p1", "Chapati", "7.00"))

	c.Increment("p1")
	c.Increment("p1")
	require.Equal(t, 3, c.Lines()[0].Quantity)

	c.Decrement("p1")
	require.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestDecrement_RemovesLineAtOne(t *testing.T) {
	c := New()
	c.AddOrIncrement(testProduct("p1", "Chapati", "7.00"))
	c.AddOrIncrement(testProduct("p2", "Cola", "2.50"))
	require.Equal(t, 2, c.Len())

	// A line at quantity 1 disappears entirely, it is never kept at zero.
	c.Decrement("p1")
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestAbsentIDsAreNoOps(t *testing.T) {
	c := New()
	c.AddOrIncrement(testProduct("p1", "Chapati", "7.00"))

	c.Increment("ghost")
	c.Decrement("ghost")
	c.Remove("ghost")

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestRemove(t *testing.T) {
	c := New()
	c.AddOrIncrement(testProduct("p1", "Chapati", "7.00"))
	c.Increment("p1")
	c.AddOrIncrement(testProduct("p2", "Cola", "2.50"))

	c.Remove("p1")

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestClear_ResetsLinesAndDiscount(t *testing.T) {
	c := New()
	c.AddOrIncrement(testProduct("p1", "Chapati", "7.00"))
	c.SetDiscount(decimal.RequireFromString("0.10"))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Discount().IsZero())
}

func TestQuantityNeverBelowOne(t *testing.T) {
	c := New()
	p := testProduct("p1", "Chapati", "7.00")

	// Arbitrary mutation sequence, including over-decrementing: at no
	// point may a present line have quantity < 1.
	ops := []func(){
		func() { c.AddOrIncrement(p) },
		func() { c.Decrement("p1") },
		func() { c.Decrement("p1") },
		func() { c.AddOrIncrement(p) },
		func() { c.Increment("p1") },
		func() { c.Decrement("p1") },
		func() { c.Decrement("p1") },
		func() { c.Decrement("p1") },
	}
	for _, op := range ops {
		op()
		for _, l := range c.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
		}
	}
}

func TestSetDiscount_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact zero", "0", "0"},
		{"exact ten", "0.10", "0.1"},
		{"exact twentyfive", "0.25", "0.25"},
		{"rounds down to ten", "0.12", "0.1"},
		{"rounds up to twentyfive", "0.20", "0.25"},
		{"above range clamps to max", "0.90", "0.25"},
		{"negative clamps to zero", "-0.05", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetDiscount(decimal.RequireFromString(tt.in))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(c.Discount()),
				"got %s", c.Discount())
		})
	}
}
