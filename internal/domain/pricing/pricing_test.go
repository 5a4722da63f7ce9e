package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price string, qty int) Line {
	return Line{UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		discount     string
		wantSubtotal string
		wantDiscount string
		wantTotal    string
	}{
		{
			name:         "two lines with 10 percent",
			lines:        []Line{line("7.00", 2), line("2.50", 1)},
			discount:     "0.10",
			wantSubtotal: "16.50",
			wantDiscount: "1.65",
			wantTotal:    "14.85",
		},
		{
			name:         "single line with 25 percent",
			lines:        []Line{line("50", 1)},
			discount:     "0.25",
			wantSubtotal: "50.00",
			wantDiscount: "12.50",
			wantTotal:    "37.50",
		},
		{
			name:         "no discount",
			lines:        []Line{line("2.50", 4)},
			discount:     "0",
			wantSubtotal: "10.00",
			wantDiscount: "0",
			wantTotal:    "10.00",
		},
		{
			name:         "empty cart",
			lines:        nil,
			discount:     "0.10",
			wantSubtotal: "0",
			wantDiscount: "0",
			wantTotal:    "0",
		},
		{
			name:         "discount above one clamps total at zero",
			lines:        []Line{line("10.00", 1)},
			discount:     "1.5",
			wantSubtotal: "10.00",
			wantDiscount: "15.00",
			wantTotal:    "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.lines, decimal.RequireFromString(tt.discount))
			assertDecimal(t, tt.wantSubtotal, got.Subtotal)
			assertDecimal(t, tt.wantDiscount, got.DiscountValue)
			assertDecimal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	lines := []Line{line("7.00", 2), line("2.50", 1), line("113", 3), line("4.6", 5)}
	discount := decimal.RequireFromString("0.10")
	want := Compute(lines, discount)

	perms := [][]int{
		{3, 2, 1, 0},
		{1, 0, 3, 2},
		{2, 3, 0, 1},
	}
	for _, perm := range perms {
		shuffled := make([]Line, len(lines))
		for i, j := range perm {
			shuffled[i] = lines[j]
		}
		got := Compute(shuffled, discount)
		assert.True(t, want.Subtotal.Equal(got.Subtotal))
		assert.True(t, want.DiscountValue.Equal(got.DiscountValue))
		assert.True(t, want.Total.Equal(got.Total))
	}
}

func TestCompute_Deterministic(t *testing.T) {
	lines := []Line{line("9", 3), line("2", 7)}
	discount := decimal.RequireFromString("0.25")

	first := Compute(lines, discount)
	for i := 0; i < 10; i++ {
		again := Compute(lines, discount)
		assert.True(t, first.Total.Equal(again.Total))
	}
}
