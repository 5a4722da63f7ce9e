package sale

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tlatasch/pos-terminal/internal/domain/pricing"
)

// CommitRequest holds the input for finalizing a sale.
type CommitRequest struct {
	Lines           []LineItem
	DiscountPercent decimal.Decimal
	Payment         Payment
	CashierID       string
}

// Service turns a cart snapshot into a persisted immutable Sale.
//
// The service does not own the cart: on success the caller clears the
// cart and resets the discount selector, keeping commit logic
// independent of the UI cart lifecycle.
type Service struct {
	ledger Ledger
	newID  func() string
	now    func() time.Time
}

// Option overrides a Service capability, mainly for deterministic tests.
type Option func(*Service)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock replaces the default wall clock.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// NewService creates a commit Service appending to the given ledger.
func NewService(ledger Ledger, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit validates the request, prices it, stamps identity and time, and
// appends the resulting Sale to the ledger in a single atomic append.
// Either a complete Sale is persisted and returned, or nothing is
// appended and an error is surfaced; a half-written sale is never
// observable.
func (s *Service) Commit(ctx context.Context, req CommitRequest) (*Sale, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot the lines: the sale owns its own copies from here on.
	items := make([]LineItem, len(req.Lines))
	copy(items, req.Lines)

	priced := make([]pricing.Line, len(items))
	for i, it := range items {
		priced[i] = pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	totals := pricing.Compute(priced, req.DiscountPercent)

	rec := Sale{
		ID:              s.newID(),
		Timestamp:       s.now(),
		CashierID:       req.CashierID,
		Payment:         req.Payment,
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountPercent: req.DiscountPercent,
		DiscountValue:   totals.DiscountValue,
		Total:           totals.Total,
	}

	if err := s.ledger.Append(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "append sale")
	}

	return &rec, nil
}

// Last returns the most recently committed sale, used by the receipt
// reprint flow. Returns ErrNoSales when the ledger is empty.
func (s *Service) Last(ctx context.Context) (*Sale, error) {
	all, err := s.ledger.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read ledger")
	}
	if len(all) == 0 {
		return nil, ErrNoSales
	}
	return &all[0], nil
}
