// Package auth resolves cashier PINs to cashier identities. The core
// treats authentication as already resolved: checkout only consumes the
// opaque cashier id this package hands out.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/go-faster/errors"
)

// ErrUnknownPIN is returned when no cashier matches the presented PIN.
var ErrUnknownPIN = errors.New("unknown PIN")

// Cashier holds the identity data for a terminal operator.
type Cashier struct {
	ID      string
	Name    string
	PinHash string
}

// Repository provides lookup of cashiers by their HMAC-SHA256 PIN hash.
type Repository interface {
	FindByPinHash(ctx context.Context, hash string) (*Cashier, error)
}

// HashPIN computes the hex-encoded HMAC-SHA256 of a PIN under the given
// pepper. PINs are never stored or compared in the clear.
func HashPIN(pepper []byte, pin string) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(pin))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verifier authenticates cashiers via peppered PIN hashes.
type Verifier struct {
	cashiers Repository
	pepper   []byte
}

// NewVerifier creates a Verifier backed by the given cashier repository.
func NewVerifier(cashiers Repository, pepper []byte) *Verifier {
	return &Verifier{cashiers: cashiers, pepper: pepper}
}

// Verify resolves a PIN to a cashier. The stored hash is re-compared in
// constant time: the lookup already matched, but the repository could
// return a stale row, and the compare cost is negligible.
func (v *Verifier) Verify(ctx context.Context, pin string) (*Cashier, error) {
	mac := hmac.New(sha256.New, v.pepper)
	mac.Write([]byte(pin))
	hash := mac.Sum(nil)

	c, err := v.cashiers.FindByPinHash(ctx, hex.EncodeToString(hash))
	if err != nil {
		if errors.Is(err, ErrUnknownPIN) {
			return nil, ErrUnknownPIN
		}
		return nil, errors.Wrap(err, "lookup cashier")
	}

	stored, err := hex.DecodeString(c.PinHash)
	if err != nil {
		return nil, ErrUnknownPIN
	}
	if subtle.ConstantTimeCompare(hash, stored) != 1 {
		return nil, ErrUnknownPIN
	}

	return c, nil
}
