// Package report aggregates the sales ledger for the reporting view:
// date-range resolution, payment filtering, KPI computation, and CSV
// export. Reporting only ever reads sales; it never mutates the ledger.
package report

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// Range enumerates the supported reporting windows.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange validates a range string.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case RangeDay, RangeWeek, RangeMonth:
		return Range(s), nil
	default:
		return "", errors.Errorf("unsupported range: %q", s)
	}
}

// PaymentFilter restricts a report to one payment method, or none.
type PaymentFilter string

const (
	FilterAll  PaymentFilter = "ALL"
	FilterCash PaymentFilter = PaymentFilter(sale.PaymentCash)
	FilterCard PaymentFilter = PaymentFilter(sale.PaymentCard)
)

// ParsePaymentFilter validates a payment filter string.
func ParsePaymentFilter(s string) (PaymentFilter, error) {
	switch PaymentFilter(s) {
	case FilterAll, FilterCash, FilterCard:
		return PaymentFilter(s), nil
	default:
		return "", errors.Errorf("unsupported payment filter: %q", s)
	}
}

// KPI holds the aggregate figures over a filtered sale set.
type KPI struct {
	Count   int
	Items   int
	Revenue decimal.Decimal
	Avg     decimal.Decimal
}

// Resolve computes the inclusive [from, to] bounds for the given range
// anchored at anchor, in the given location:
//
//	day:   00:00:00 through 23:59:59.999999999 of the anchor date
//	week:  Monday 00:00:00 through the following Sunday end of day
//	month: first through last calendar day of the anchor's month
func Resolve(r Range, anchor time.Time, loc *time.Location) (from, to time.Time) {
	a := anchor.In(loc)

	switch r {
	case RangeWeek:
		// time.Weekday counts Sunday as 0; shift so Monday starts the week.
		offset := (int(a.Weekday()) + 6) % 7
		monday := startOfDay(a.AddDate(0, 0, -offset))
		return monday, endOfDay(monday.AddDate(0, 0, 6))
	case RangeMonth:
		first := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, loc)
		last := first.AddDate(0, 1, -1)
		return first, endOfDay(last)
	default:
		return startOfDay(a), endOfDay(a)
	}
}

// Query returns the sales with from <= timestamp <= to whose payment
// method matches the filter, preserving input order.
func Query(sales []sale.Sale, from, to time.Time, filter PaymentFilter) []sale.Sale {
	out := make([]sale.Sale, 0, len(sales))
	for _, s := range sales {
		if s.Timestamp.Before(from) || s.Timestamp.After(to) {
			continue
		}
		if filter != FilterAll && PaymentFilter(s.Payment) != filter {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Summarize computes the KPIs over a filtered sale set. Avg is zero when
// the set is empty.
func Summarize(sales []sale.Sale) KPI {
	k := KPI{Revenue: decimal.Zero, Avg: decimal.Zero}
	for _, s := range sales {
		k.Count++
		k.Items += s.ItemCount()
		k.Revenue = k.Revenue.Add(s.Total)
	}
	if k.Count > 0 {
		k.Avg = k.Revenue.Div(decimal.NewFromInt(int64(k.Count)))
	}
	return k
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
