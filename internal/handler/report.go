package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tlatasch/pos-terminal/internal/domain/report"
	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

const anchorLayout = "2006-01-02"

type reportView struct {
	From    time.Time  `json:"from"`
	To      time.Time  `json:"to"`
	Count   int        `json:"count"`
	Items   int        `json:"items"`
	Revenue string     `json:"revenue"`
	Avg     string     `json:"avg"`
	Sales   []saleView `json:"sales"`
}

// reportQuery parses range/anchor/payment parameters, defaulting to
// today's day view over all payment methods.
func (h *Handler) reportQuery(w http.ResponseWriter, r *http.Request) ([]sale.Sale, time.Time, time.Time, bool) {
	q := r.URL.Query()

	rng := report.RangeDay
	if v := q.Get("range"); v != "" {
		parsed, err := report.ParseRange(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return nil, time.Time{}, time.Time{}, false
		}
		rng = parsed
	}

	anchor := time.Now()
	if v := q.Get("anchor"); v != "" {
		parsed, err := time.ParseInLocation(anchorLayout, v, time.Local)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
			return nil, time.Time{}, time.Time{}, false
		}
		anchor = parsed
	}

	filter := report.FilterAll
	if v := q.Get("payment"); v != "" {
		parsed, err := report.ParsePaymentFilter(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return nil, time.Time{}, time.Time{}, false
		}
		filter = parsed
	}

	all, err := h.ledger.All(r.Context())
	if err != nil {
		// The ledger read path degrades rather than fails, so this only
		// triggers on context cancellation.
		zctx.From(r.Context()).Error("read ledger", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "ledger unavailable")
		return nil, time.Time{}, time.Time{}, false
	}

	from, to := report.Resolve(rng, anchor, time.Local)
	return report.Query(all, from, to, filter), from, to, true
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	filtered, from, to, ok := h.reportQuery(w, r)
	if !ok {
		return
	}

	kpi := report.Summarize(filtered)
	writeJSON(w, r, http.StatusOK, reportView{
		From:    from,
		To:      to,
		Count:   kpi.Count,
		Items:   kpi.Items,
		Revenue: kpi.Revenue.StringFixed(2),
		Avg:     kpi.Avg.StringFixed(2),
		Sales:   viewSales(filtered),
	})
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	filtered, _, _, ok := h.reportQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales_export.csv"`)
	if err := report.WriteCSV(w, filtered); err != nil {
		zctx.From(r.Context()).Error("write csv", zap.Error(err))
	}
}
