package bolt

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"

	"github.com/tlatasch/pos-terminal/internal/domain/auth"
)

var _ auth.Repository = (*Cashiers)(nil)

// Cashiers implements the cashier directory on a bbolt bucket, keyed by
// peppered PIN hash.
type Cashiers struct {
	db *bbolt.DB
}

type cashierRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FindByPinHash resolves a PIN hash to a cashier. Returns
// auth.ErrUnknownPIN when no cashier matches.
func (c *Cashiers) FindByPinHash(ctx context.Context, hash string) (*auth.Cashier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out *auth.Cashier
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketCashiers).Get([]byte(hash))
		if raw == nil {
			return auth.ErrUnknownPIN
		}
		var rec cashierRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return errors.Wrap(err, "unmarshal cashier")
		}
		out = &auth.Cashier{ID: rec.ID, Name: rec.Name, PinHash: hash}
		return nil
	})
	if err != nil {
		if errors.Is(err, auth.ErrUnknownPIN) {
			return nil, auth.ErrUnknownPIN
		}
		return nil, errors.Wrap(err, "find cashier")
	}
	return out, nil
}

// Put stores a cashier under its PIN hash, replacing any existing entry.
func (c *Cashiers) Put(ctx context.Context, cashier auth.Cashier) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(cashierRecord{ID: cashier.ID, Name: cashier.Name})
	if err != nil {
		return errors.Wrap(err, "marshal cashier")
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCashiers).Put([]byte(cashier.PinHash), raw)
	})
	if err != nil {
		return errors.Wrapf(err, "put cashier %q", cashier.ID)
	}
	return nil
}

// SeedDefault inserts the given cashier when the directory is empty, so
// a fresh terminal has a working login.
func (c *Cashiers) SeedDefault(ctx context.Context, cashier auth.Cashier) error {
	empty := true
	err := c.db.View(func(tx *bbolt.Tx) error {
		empty = tx.Bucket(bucketCashiers).Stats().KeyN == 0
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "inspect cashiers")
	}
	if !empty {
		return nil
	}
	return c.Put(ctx, cashier)
}
