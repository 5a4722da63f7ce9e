// Package handler exposes the terminal's local HTTP API: catalog reads
// and administration, cart mutations, checkout, receipt retrieval,
// reporting, and session opening. Handlers stay thin and delegate to
// the domain packages.
package handler

import (
	"net/http"

	"github.com/tlatasch/pos-terminal/internal/domain/auth"
	"github.com/tlatasch/pos-terminal/internal/domain/cart"
	"github.com/tlatasch/pos-terminal/internal/domain/product"
	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// Handler carries the domain dependencies for all API routes. One
// handler serves one terminal and therefore owns exactly one cart.
type Handler struct {
	catalog  product.Admin
	cart     *cart.Cart
	sales    *sale.Service
	ledger   sale.Ledger
	verifier *auth.Verifier
}

// New constructs a Handler with the required domain dependencies.
func New(
	catalog product.Admin,
	c *cart.Cart,
	sales *sale.Service,
	ledger sale.Ledger,
	verifier *auth.Verifier,
) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     c,
		sales:    sales,
		ledger:   ledger,
		verifier: verifier,
	}
}

// Register mounts all API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.upsertProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addItem)
	mux.HandleFunc("POST /api/cart/items/{id}/increment", h.incrementItem)
	mux.HandleFunc("POST /api/cart/items/{id}/decrement", h.decrementItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("PUT /api/cart/discount", h.setDiscount)

	mux.HandleFunc("POST /api/checkout", h.checkout)
	mux.HandleFunc("GET /api/sales/last", h.lastSale)
	mux.HandleFunc("DELETE /api/sales", h.clearSales)

	mux.HandleFunc("GET /api/reports", h.report)
	mux.HandleFunc("GET /api/reports/export", h.exportReport)

	mux.HandleFunc("POST /api/session", h.openSession)
}
