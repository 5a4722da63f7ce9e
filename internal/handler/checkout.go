package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

type checkoutRequest struct {
	Payment   string `json:"payment"`
	CashierID string `json:"cashierId"`
}

// checkout finalizes the current cart as a sale. On success the cart is
// cleared and the committed sale is returned as the receipt payload.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := sale.ParsePayment(req.Payment)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CashierID == "" {
		writeError(w, r, http.StatusBadRequest, "cashierId is required")
		return
	}

	lines := h.cart.Lines()
	items := make([]sale.LineItem, len(lines))
	for i, l := range lines {
		items[i] = sale.LineItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}

	committed, err := h.sales.Commit(ctx, sale.CommitRequest{
		Lines:           items,
		DiscountPercent: h.cart.Discount(),
		Payment:         payment,
		CashierID:       req.CashierID,
	})
	if err != nil {
		if errors.Is(err, sale.ErrEmptyCart) {
			writeError(w, r, http.StatusUnprocessableEntity, "cart is empty")
			return
		}
		// Append failed: the sale was NOT recorded. The operator must
		// see this, so it never degrades to a success response.
		zctx.From(ctx).Error("commit sale", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "sale was not recorded, storage write failed")
		return
	}

	h.cart.Clear()
	writeJSON(w, r, http.StatusOK, viewSale(*committed))
}

// lastSale returns the most recent committed sale for receipt reprint.
func (h *Handler) lastSale(w http.ResponseWriter, r *http.Request) {
	s, err := h.sales.Last(r.Context())
	if err != nil {
		if errors.Is(err, sale.ErrNoSales) {
			writeError(w, r, http.StatusNotFound, "no previous receipt found")
			return
		}
		zctx.From(r.Context()).Error("last sale", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "ledger unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, viewSale(*s))
}

// clearSales wipes the whole ledger. Administrative operation.
func (h *Handler) clearSales(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Clear(r.Context()); err != nil {
		zctx.From(r.Context()).Error("clear ledger", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "ledger clear failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
