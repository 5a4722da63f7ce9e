package bolt

import (
	"context"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// keyLedger is the single fixed key the whole sale array lives under.
// The blob is read in full and overwritten in full; logical append
// semantics are provided at this API level.
var keyLedger = []byte("ledger")

var _ sale.Ledger = (*Ledger)(nil)

// Ledger implements sale.Ledger on a bbolt bucket.
//
// The read path never fails the terminal: an unreadable or corrupt blob
// degrades to an empty ledger with a logged warning. The write path is
// the opposite: any append error propagates, because a silently lost
// sale is unrecoverable revenue.
type Ledger struct {
	db *bbolt.DB
	lg *zap.Logger
}

// Append prepends the sale to the stored array inside a single write
// transaction, so the new record and the rewritten blob commit
// atomically. A corrupt existing blob is replaced rather than blocking
// the sale: recording revenue outranks preserving bytes that can no
// longer be decoded.
func (l *Ledger) Append(ctx context.Context, s sale.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSales)
		if b == nil {
			return errors.New("sales bucket missing")
		}

		existing := l.decodeOrEmpty(b.Get(keyLedger))

		all := make([]sale.Sale, 0, len(existing)+1)
		all = append(all, s)
		all = append(all, existing...)

		return b.Put(keyLedger, encodeSales(all))
	})
	if err != nil {
		return errors.Wrap(err, "write ledger")
	}
	return nil
}

// All returns every stored sale, most recent first. Idempotent between
// writes; storage problems yield an empty slice, never an error.
func (l *Ledger) All(ctx context.Context) ([]sale.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []sale.Sale
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSales)
		if b == nil {
			return nil
		}
		out = l.decodeOrEmpty(b.Get(keyLedger))
		return nil
	})
	if err != nil {
		l.lg.Warn("ledger read failed, treating as empty", zap.Error(err))
		return []sale.Sale{}, nil
	}
	return out, nil
}

// Clear removes every stored sale. Administrative operation; the
// surrounding UI does not expose it to ordinary cashiers.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSales)
		if b == nil {
			return errors.New("sales bucket missing")
		}
		return b.Put(keyLedger, encodeSales(nil))
	})
	if err != nil {
		return errors.Wrap(err, "clear ledger")
	}
	return nil
}

func (l *Ledger) decodeOrEmpty(raw []byte) []sale.Sale {
	if len(raw) == 0 {
		return []sale.Sale{}
	}
	sales, err := decodeSales(raw)
	if err != nil {
		l.lg.Warn("ledger blob corrupt, treating as empty", zap.Error(err))
		return []sale.Sale{}
	}
	return sales
}
