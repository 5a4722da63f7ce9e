package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/auth"
	"github.com/tlatasch/pos-terminal/internal/domain/cart"
	"github.com/tlatasch/pos-terminal/internal/domain/sale"
	"github.com/tlatasch/pos-terminal/internal/storage/bolt"
)

var testPepper = []byte("test-pepper")

// newTestServer wires a handler against a fresh store with the default
// catalog, one cashier (PIN 1234), and a deterministic commit service.
func newTestServer(t *testing.T) (*httptest.Server, *cart.Cart, sale.Ledger) {
	t.Helper()

	store, err := bolt.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := t.Context()
	catalog := store.Catalog()
	require.NoError(t, catalog.SeedDefaults(ctx))

	cashiers := store.Cashiers()
	require.NoError(t, cashiers.Put(ctx, auth.Cashier{
		ID: "000001", Name: "Cashier", PinHash: auth.HashPIN(testPepper, "1234"),
	}))

	ledger := store.Ledger(zap.NewNop())

	n := 0
	saleSvc := sale.NewService(ledger,
		sale.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sale-%d", n)
		}),
		sale.WithClock(func() time.Time {
			return time.Date(2024, 1, 5, 12, 0, 0, 0, time.Local)
		}),
	)

	c := cart.New()
	h := New(catalog, c, saleSvc, ledger, auth.NewVerifier(cashiers, testPepper))

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, c, ledger
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestListProducts(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/products?category=Drinks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []map[string]any
	decodeBody(t, resp, &products)
	assert.Len(t, products, 4)
}

func TestCartFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Two chapatis and one cola.
	resp := do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/cart/items/p1/increment", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p7"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/cart/discount", `{"percent":"0.10"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Lines           []map[string]any `json:"lines"`
		DiscountPercent string           `json:"discountPercent"`
		Subtotal        string           `json:"subtotal"`
		DiscountValue   string           `json:"discountValue"`
		Total           string           `json:"total"`
	}
	decodeBody(t, resp, &view)

	assert.Len(t, view.Lines, 2)
	assert.Equal(t, "0.1", view.DiscountPercent)
	assert.Equal(t, "16.50", view.Subtotal)
	assert.Equal(t, "1.65", view.DiscountValue)
	assert.Equal(t, "14.85", view.Total)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDecrement_RemovesLastUnit(t *testing.T) {
	srv, c, _ := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	resp := do(t, http.MethodPost, srv.URL+"/api/cart/items/p1/decrement", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, c.IsEmpty())
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv, _, ledger := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CASH","cashierId":"000001"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	all, err := ledger.All(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCheckout_Success(t *testing.T) {
	srv, c, ledger := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p13"}`)
	do(t, http.MethodPut, srv.URL+"/api/cart/discount", `{"percent":"0.25"}`)

	resp := do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CARD","cashierId":"000001"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var receipt struct {
		ID            string `json:"id"`
		Payment       string `json:"payment"`
		Subtotal      string `json:"subtotal"`
		DiscountValue string `json:"discountValue"`
		Total         string `json:"total"`
	}
	decodeBody(t, resp, &receipt)
	assert.Equal(t, "CARD", receipt.Payment)
	assert.Equal(t, "50.00", receipt.Subtotal)
	assert.Equal(t, "12.50", receipt.DiscountValue)
	assert.Equal(t, "37.50", receipt.Total)

	// The cart is cleared and the discount reset after a commit.
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Discount().IsZero())

	all, err := ledger.All(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCheckout_InvalidPayment(t *testing.T) {
	srv, _, _ := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	resp := do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"IOU","cashierId":"000001"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLastSale(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/sales/last", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CASH","cashierId":"000001"}`)

	resp = do(t, http.MethodGet, srv.URL+"/api/sales/last", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var receipt struct {
		Payment string `json:"payment"`
		Total   string `json:"total"`
	}
	decodeBody(t, resp, &receipt)
	assert.Equal(t, "CASH", receipt.Payment)
	assert.Equal(t, "7.00", receipt.Total)
}

func TestReport(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// One cash and one card sale, committed "today" per the fixed clock.
	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CASH","cashierId":"000001"}`)
	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p7"}`)
	do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CARD","cashierId":"000001"}`)

	resp := do(t, http.MethodGet, srv.URL+"/api/reports?range=day&anchor=2024-01-05&payment=ALL", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Count   int    `json:"count"`
		Items   int    `json:"items"`
		Revenue string `json:"revenue"`
		Avg     string `json:"avg"`
	}
	decodeBody(t, resp, &view)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 2, view.Items)
	assert.Equal(t, "9.50", view.Revenue)
	assert.Equal(t, "4.75", view.Avg)

	resp = do(t, http.MethodGet, srv.URL+"/api/reports?range=day&anchor=2024-01-05&payment=CARD", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &view)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "2.50", view.Revenue)
}

func TestReport_BadParams(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/reports?range=year", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/reports?anchor=Jan-5", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/reports?payment=cheque", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportReport(t *testing.T) {
	srv, _, _ := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CASH","cashierId":"000001"}`)

	resp := do(t, http.MethodGet, srv.URL+"/api/reports/export?range=day&anchor=2024-01-05", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"id,date,time,cashier,payment,itemsCount,subtotal,discountPercent,discountValue,total",
		lines[0])
	assert.Contains(t, lines[1], "CASH")
	assert.Contains(t, lines[1], "7.00")
}

func TestClearSales(t *testing.T) {
	srv, _, ledger := newTestServer(t)

	do(t, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"p1"}`)
	do(t, http.MethodPost, srv.URL+"/api/checkout", `{"payment":"CASH","cashierId":"000001"}`)

	resp := do(t, http.MethodDelete, srv.URL+"/api/sales", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	all, err := ledger.All(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSession(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/session", `{"pin":"1234"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session struct {
		CashierID string `json:"cashierId"`
		Name      string `json:"name"`
	}
	decodeBody(t, resp, &session)
	assert.Equal(t, "000001", session.CashierID)
	assert.Equal(t, "Cashier", session.Name)

	resp = do(t, http.MethodPost, srv.URL+"/api/session", `{"pin":"0000"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductAdmin(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/products",
		`{"id":"x1","name":"Brik","price":"3.50","category":"Food"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/products/x1",
		`{"name":"Brik Thon","price":"4.00","category":"Food"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/products?category=Food", "")
	var products []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, resp, &products)
	found := false
	for _, p := range products {
		if p.ID == "x1" {
			found = true
			assert.Equal(t, "Brik Thon", p.Name)
		}
	}
	assert.True(t, found)

	resp = do(t, http.MethodDelete, srv.URL+"/api/products/x1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
