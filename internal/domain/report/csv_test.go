package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

func TestWriteCSV(t *testing.T) {
	// Local-zone timestamps so the local-time split in the export is
	// deterministic regardless of the host zone.
	ts := time.Date(2024, 1, 5, 9, 30, 15, 0, time.Local)

	sales := []sale.Sale{
		{
			ID:        "s1",
			Timestamp: ts,
			CashierID: "000001",
			Payment:   sale.PaymentCash,
			Items: []sale.LineItem{
				{ProductID: "p1", Name: "Chapati", UnitPrice: decimal.RequireFromString("7"), Quantity: 2},
				{ProductID: "p7", Name: "Cola", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 1},
			},
			Subtotal:        decimal.RequireFromString("16.5"),
			DiscountPercent: decimal.RequireFromString("0.1"),
			DiscountValue:   decimal.RequireFromString("1.65"),
			Total:           decimal.RequireFromString("14.85"),
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, sales))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"id,date,time,cashier,payment,itemsCount,subtotal,discountPercent,discountValue,total",
		lines[0])
	assert.Equal(t, "s1,2024-01-05,09:30:15,000001,CASH,3,16.50,10%,1.65,14.85", lines[1])
}

func TestWriteCSV_ZeroDiscount(t *testing.T) {
	s := sale.Sale{
		ID:              "s1",
		Timestamp:       time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local),
		CashierID:       "000001",
		Payment:         sale.PaymentCard,
		Subtotal:        decimal.RequireFromString("10"),
		DiscountPercent: decimal.Zero,
		DiscountValue:   decimal.Zero,
		Total:           decimal.RequireFromString("10"),
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, []sale.Sale{s}))
	assert.Contains(t, sb.String(), ",0%,0.00,10.00")
}

func TestWriteCSV_EscapesFields(t *testing.T) {
	s := sale.Sale{
		ID:              "s1",
		Timestamp:       time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local),
		CashierID:       `Doe, "John"`,
		Payment:         sale.PaymentCash,
		Subtotal:        decimal.RequireFromString("10"),
		DiscountPercent: decimal.Zero,
		DiscountValue:   decimal.Zero,
		Total:           decimal.RequireFromString("10"),
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, []sale.Sale{s}))

	// Comma and quotes force wrapping, with inner quotes doubled.
	assert.Contains(t, sb.String(), `"Doe, ""John"""`)
}

func TestWriteCSV_EmptySet(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, nil))

	assert.Equal(t,
		"id,date,time,cashier,payment,itemsCount,subtotal,discountPercent,discountValue,total\n",
		sb.String())
}
