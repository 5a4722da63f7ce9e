package bolt

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.etcd.io/bbolt"

	"github.com/tlatasch/pos-terminal/internal/domain/product"
)

var _ product.Admin = (*Catalog)(nil)

// Catalog implements the product catalog on a bbolt bucket, one record
// per product id.
type Catalog struct {
	db *bbolt.DB
}

// catalogRecord is the stored form of a product.
type catalogRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Active   bool            `json:"active"`
}

// List returns every product, including inactive ones, in key order.
func (c *Catalog) List(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []product.Product
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCatalog).ForEach(func(_, v []byte) error {
			p, err := decodeProduct(v)
			if err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list catalog")
	}
	return out, nil
}

// ListCategory returns the active products in the given category,
// mirroring what the selling screen shows.
func (c *Catalog) ListCategory(ctx context.Context, category string) ([]product.Product, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]product.Product, 0, len(all))
	for _, p := range all {
		if p.Active && p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID looks up a single product. Returns product.ErrNotFound when
// the id is unknown.
func (c *Catalog) GetByID(ctx context.Context, id string) (*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p product.Product
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketCatalog).Get([]byte(id))
		if raw == nil {
			return product.ErrNotFound
		}
		var derr error
		p, derr = decodeProduct(raw)
		return derr
	})
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Upsert creates or replaces a product record.
func (c *Catalog) Upsert(ctx context.Context, p product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(catalogRecord{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Active:   p.Active,
	})
	if err != nil {
		return errors.Wrap(err, "marshal product")
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCatalog).Put([]byte(p.ID), raw)
	})
	if err != nil {
		return errors.Wrapf(err, "put product %q", p.ID)
	}
	return nil
}

// Delete removes a product record. No-op for unknown ids.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCatalog).Delete([]byte(id))
	})
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	return nil
}

// SeedDefaults inserts the stock product set when the catalog is empty,
// so a fresh terminal is sellable out of the box.
func (c *Catalog) SeedDefaults(ctx context.Context) error {
	empty := true
	err := c.db.View(func(tx *bbolt.Tx) error {
		empty = tx.Bucket(bucketCatalog).Stats().KeyN == 0
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "inspect catalog")
	}
	if !empty {
		return nil
	}

	for _, p := range defaultProducts() {
		if err := c.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func decodeProduct(raw []byte) (product.Product, error) {
	var rec catalogRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return product.Product{}, errors.Wrap(err, "unmarshal product")
	}
	return product.Product{
		ID:       rec.ID,
		Name:     rec.Name,
		Price:    rec.Price,
		Category: rec.Category,
		Active:   rec.Active,
	}, nil
}

func defaultProducts() []product.Product {
	price := decimal.RequireFromString
	return []product.Product{
		{ID: "p1", Name: "Chapati Normal", Price: price("7"), Category: "Food", Active: true},
		{ID: "p2", Name: "Double Egg", Price: price("8"), Category: "Food", Active: true},
		{ID: "p3", Name: "Mozzarella", Price: price("9"), Category: "Food", Active: true},
		{ID: "p4", Name: "Jambon & Pepperoni", Price: price("9"), Category: "Food", Active: true},
		{ID: "p5", Name: "4 Fromage", Price: price("4.6"), Category: "Food", Active: true},
		{ID: "p6", Name: "Escalope", Price: price("10"), Category: "Food", Active: true},
		{ID: "p7", Name: "Cola", Price: price("2.5"), Category: "Drinks", Active: true},
		{ID: "p8", Name: "Fanta", Price: price("2.5"), Category: "Drinks", Active: true},
		{ID: "p9", Name: "Delio", Price: price("2"), Category: "Drinks", Active: true},
		{ID: "p10", Name: "Jus", Price: price("2"), Category: "Drinks", Active: true},
		{ID: "p11", Name: "Chapati + Softdrink", Price: price("5.5"), Category: "Menus", Active: true},
		{ID: "p12", Name: "Duo 2 Chapati + 2 Softdrinks", Price: price("10.5"), Category: "Menus", Active: true},
		{ID: "p13", Name: "Combi 13", Price: price("50"), Category: "Menus", Active: true},
		{ID: "p14", Name: "Combi 31", Price: price("113"), Category: "Menus", Active: true},
	}
}
