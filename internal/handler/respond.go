package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Code: status, Message: msg})
}

// saleView is the wire form of a committed sale, used both for the
// receipt payload and report listings. Monetary values carry two
// decimal places; exactness lives in the domain record, rounding
// happens only here.
type saleView struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"timestamp"`
	CashierID       string         `json:"cashierId"`
	Payment         string         `json:"payment"`
	Items           []saleItemView `json:"items"`
	ItemsCount      int            `json:"itemsCount"`
	Subtotal        string         `json:"subtotal"`
	DiscountPercent string         `json:"discountPercent"`
	DiscountValue   string         `json:"discountValue"`
	Total           string         `json:"total"`
}

type saleItemView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

func viewSale(s sale.Sale) saleView {
	items := make([]saleItemView, len(s.Items))
	for i, it := range s.Items {
		items[i] = saleItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		}
	}
	return saleView{
		ID:              s.ID,
		Timestamp:       s.Timestamp,
		CashierID:       s.CashierID,
		Payment:         string(s.Payment),
		Items:           items,
		ItemsCount:      s.ItemCount(),
		Subtotal:        s.Subtotal.StringFixed(2),
		DiscountPercent: s.DiscountPercent.String(),
		DiscountValue:   s.DiscountValue.StringFixed(2),
		Total:           s.Total.StringFixed(2),
	}
}

func viewSales(sales []sale.Sale) []saleView {
	out := make([]saleView, len(sales))
	for i, s := range sales {
		out[i] = viewSale(s)
	}
	return out
}
