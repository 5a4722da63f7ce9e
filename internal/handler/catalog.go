package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/product"
)

type productView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

type productRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Active   *bool  `json:"active"`
}

func viewProducts(products []product.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = productView{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.StringFixed(2),
			Category: p.Category,
			Active:   p.Active,
		}
	}
	return out
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		products []product.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.catalog.ListCategory(ctx, category)
	} else {
		products, err = h.catalog.List(ctx)
	}
	if err != nil {
		zctx.From(ctx).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, viewProducts(products))
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	h.saveProduct(w, r, req)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = r.PathValue("id")
	h.saveProduct(w, r, req)
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request, req productRequest) {
	if req.ID == "" || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "id and name are required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeError(w, r, http.StatusBadRequest, "price must be a non-negative decimal")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p := product.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    price,
		Category: req.Category,
		Active:   active,
	}
	if err := h.catalog.Upsert(r.Context(), p); err != nil {
		zctx.From(r.Context()).Error("upsert product", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "catalog write failed")
		return
	}

	writeJSON(w, r, http.StatusOK, viewProducts([]product.Product{p})[0])
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		zctx.From(r.Context()).Error("delete product", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "catalog write failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
