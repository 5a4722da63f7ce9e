package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/pricing"
	"github.com/tlatasch/pos-terminal/internal/domain/product"
)

type cartLineView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// cartView is the cart with its live totals, recomputed on every read.
type cartView struct {
	Lines           []cartLineView `json:"lines"`
	DiscountPercent string         `json:"discountPercent"`
	Subtotal        string         `json:"subtotal"`
	DiscountValue   string         `json:"discountValue"`
	Total           string         `json:"total"`
}

func (h *Handler) viewCart() cartView {
	lines := h.cart.Lines()
	discount := h.cart.Discount()

	priced := make([]pricing.Line, len(lines))
	lineViews := make([]cartLineView, len(lines))
	for i, l := range lines {
		priced[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
		lineViews[i] = cartLineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
		}
	}
	totals := pricing.Compute(priced, discount)

	return cartView{
		Lines:           lineViews,
		DiscountPercent: discount.String(),
		Subtotal:        totals.Subtotal.StringFixed(2),
		DiscountValue:   totals.DiscountValue.StringFixed(2),
		Total:           totals.Total.StringFixed(2),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	p, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	h.cart.AddOrIncrement(*p)
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Increment(r.PathValue("id"))
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Decrement(r.PathValue("id"))
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Remove(r.PathValue("id"))
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	writeJSON(w, r, http.StatusOK, h.viewCart())
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent string `json:"percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := decimal.NewFromString(req.Percent)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "percent must be a decimal fraction")
		return
	}

	// Out-of-range selectors are clamped to the nearest allowed value,
	// never applied as-is.
	h.cart.SetDiscount(d)
	writeJSON(w, r, http.StatusOK, h.viewCart())
}
