package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item sellable at the terminal.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	Active   bool
}

// Repository defines read operations for the product catalog.
// The selling core consumes the catalog strictly through this interface
// and never writes to it. Committed sales keep their own copy of
// id/name/price, so later catalog edits never alter history.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListCategory(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

// Admin extends Repository with catalog maintenance operations.
// Only the administration surface uses it.
type Admin interface {
	Repository
	Upsert(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}
