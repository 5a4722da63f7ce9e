package sale

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for the commit path.
var (
	// ErrEmptyCart is returned when a commit is attempted with no line
	// items. It is always surfaced to the operator, never swallowed.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoSales is returned by Last when the ledger holds no records.
	ErrNoSales = errors.New("no sales recorded")
)

// Payment enumerates the supported payment methods.
type Payment string

const (
	PaymentCash Payment = "CASH"
	PaymentCard Payment = "CARD"
)

// ParsePayment validates a payment method string.
func ParsePayment(s string) (Payment, error) {
	switch Payment(s) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	default:
		return "", errors.Errorf("unsupported payment method: %q", s)
	}
}

// LineItem is a denormalized snapshot of one cart line at commit time.
// It carries its own copy of name and unit price so that later catalog
// edits never change a recorded sale.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Sale is an immutable record of one finalized transaction. It is
// created exactly once by the commit service and never mutated; the
// only way it leaves the ledger is an explicit administrative clear.
//
// Invariants fixed at commit time: DiscountValue = Subtotal ×
// DiscountPercent and Total = max(0, Subtotal − DiscountValue).
type Sale struct {
	ID              string
	Timestamp       time.Time
	CashierID       string
	Payment         Payment
	Items           []LineItem
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountValue   decimal.Decimal
	Total           decimal.Decimal
}

// ItemCount returns the total quantity across all line items.
func (s Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Ledger is the append-only store of committed sales.
//
// Append is the only write besides Clear: no in-place edits, no
// per-record deletes. Once Append returns nil the sale must be visible
// to every subsequent All until a Clear. All returns records
// most-recent-first; implementations degrade an unreadable or corrupt
// store to an empty slice on the read path, while Append failures
// always propagate, since a silently dropped sale is lost revenue.
type Ledger interface {
	Append(ctx context.Context, s Sale) error
	All(ctx context.Context) ([]Sale, error)
	Clear(ctx context.Context) error
}
