package bolt

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/tlatasch/pos-terminal/internal/domain/sale"
)

// The ledger blob is a JSON array of sale objects. Decimals are encoded
// as strings to keep exact values across the round trip, timestamps as
// RFC 3339 with nanoseconds.

func encodeSales(sales []sale.Sale) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range sales {
		encodeSale(&e, &sales[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeSale(e *jx.Encoder, s *sale.Sale) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(s.ID)
	e.FieldStart("timestamp")
	e.Str(s.Timestamp.Format(time.RFC3339Nano))
	e.FieldStart("cashier")
	e.Str(s.CashierID)
	e.FieldStart("payment")
	e.Str(string(s.Payment))
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range s.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("unitPrice")
		e.Str(it.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	e.Str(s.Subtotal.String())
	e.FieldStart("discountPercent")
	e.Str(s.DiscountPercent.String())
	e.FieldStart("discountValue")
	e.Str(s.DiscountValue.String())
	e.FieldStart("total")
	e.Str(s.Total.String())
	e.ObjEnd()
}

func decodeSales(data []byte) ([]sale.Sale, error) {
	d := jx.DecodeBytes(data)
	var out []sale.Sale
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := decodeSale(d)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode ledger")
	}
	return out, nil
}

func decodeSale(d *jx.Decoder) (sale.Sale, error) {
	var s sale.Sale
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			s.ID = v
			return err
		case "timestamp":
			v, err := d.Str()
			if err != nil {
				return err
			}
			ts, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return errors.Wrap(err, "parse timestamp")
			}
			s.Timestamp = ts
			return nil
		case "cashier":
			v, err := d.Str()
			s.CashierID = v
			return err
		case "payment":
			v, err := d.Str()
			s.Payment = sale.Payment(v)
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				it, err := decodeItem(d)
				if err != nil {
					return err
				}
				s.Items = append(s.Items, it)
				return nil
			})
		case "subtotal":
			return decodeDecimal(d, &s.Subtotal)
		case "discountPercent":
			return decodeDecimal(d, &s.DiscountPercent)
		case "discountValue":
			return decodeDecimal(d, &s.DiscountValue)
		case "total":
			return decodeDecimal(d, &s.Total)
		default:
			return d.Skip()
		}
	})
	return s, err
}

func decodeItem(d *jx.Decoder) (sale.LineItem, error) {
	var it sale.LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			it.ProductID = v
			return err
		case "name":
			v, err := d.Str()
			it.Name = v
			return err
		case "unitPrice":
			return decodeDecimal(d, &it.UnitPrice)
		case "quantity":
			v, err := d.Int()
			it.Quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	return it, err
}

func decodeDecimal(d *jx.Decoder, dst *decimal.Decimal) error {
	v, err := d.Str()
	if err != nil {
		return err
	}
	dec, err := decimal.NewFromString(v)
	if err != nil {
		return errors.Wrapf(err, "parse decimal %q", v)
	}
	*dst = dec
	return nil
}
