// Package bolt persists the terminal's durable state in a single
// embedded bbolt file: the sales ledger, the product catalog, and the
// cashier directory. Everything is local and synchronous; there is no
// network hop between the terminal and its storage.
package bolt

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	bucketSales    = []byte("sales")
	bucketCatalog  = []byte("catalog")
	bucketCashiers = []byte("cashiers")
)

// Store wraps an open bbolt database with the buckets the terminal needs.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path and ensures all
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSales, bucketCatalog, bucketCashiers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "create bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database file without taking the write
// lock, for offline tooling running next to a live terminal.
func OpenReadOnly(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s read-only", path)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Check verifies the store is readable, for readiness probing.
func (s *Store) Check(_ context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketSales) == nil {
			return errors.New("sales bucket missing")
		}
		return nil
	})
}

// Ledger returns the sales ledger backed by this store. Read-path
// degradation warnings go to lg.
func (s *Store) Ledger(lg *zap.Logger) *Ledger {
	return &Ledger{db: s.db, lg: lg}
}

// Catalog returns the product catalog backed by this store.
func (s *Store) Catalog() *Catalog {
	return &Catalog{db: s.db}
}

// Cashiers returns the cashier directory backed by this store.
func (s *Store) Cashiers() *Cashiers {
	return &Cashiers{db: s.db}
}
