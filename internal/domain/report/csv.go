package report

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// csvRow is one exported sale. Field order defines column order; the
// quoting rules (fields containing comma, quote, or newline wrapped in
// doubled double-quotes) come from encoding/csv underneath gocsv.
type csvRow struct {
	ID              string `csv:"id"`
	Date            string `csv:"date"`
	Time            string `csv:"time"`
	Cashier         string `csv:"cashier"`
	Payment         string `csv:"payment"`
	ItemsCount      int    `csv:"itemsCount"`
	Subtotal        string `csv:"subtotal"`
	DiscountPercent string `csv:"discountPercent"`
	DiscountValue   string `csv:"discountValue"`
	Total           string `csv:"total"`
}

const (
	csvDateLayout = "2006-01-02"
	csvTimeLayout = "15:04:05"
)

// WriteCSV serializes the given sales, writing a header row followed by
// one row per sale in input order. Timestamps are split into local date
// and time, the discount percent is rendered as a whole-number
// percentage string ("10%"), and monetary fields carry exactly two
// decimal places.
func WriteCSV(w io.Writer, sales []sale.Sale) error {
	rows := make([]csvRow, len(sales))
	for i, s := range sales {
		ts := s.Timestamp.Local()
		rows[i] = csvRow{
			ID:              s.ID,
			Date:            ts.Format(csvDateLayout),
			Time:            ts.Format(csvTimeLayout),
			Cashier:         s.CashierID,
			Payment:         string(s.Payment),
			ItemsCount:      s.ItemCount(),
			Subtotal:        s.Subtotal.StringFixed(2),
			DiscountPercent: formatPercent(s.DiscountPercent),
			DiscountValue:   s.DiscountValue.StringFixed(2),
			Total:           s.Total.StringFixed(2),
		}
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "marshal csv")
	}
	return nil
}

// formatPercent renders a discount fraction as a rounded whole-number
// percentage string: 0.10 -> "10%".
func formatPercent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}
