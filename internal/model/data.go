package model

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ProductID accepts both numeric and string ids from the API and keeps
// the textual form that ends up in the export.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "decode product id")
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "decode product id")
	}
	*id = ProductID(n.String())
	return nil
}

// Manufacturer of a product
type Manufacturer struct {
	Name string `json:"name"`
}

// Prices of a product in a single stock entry.
// OldPrice is only set while a promotion is running.
type Prices struct {
	Price    decimal.NullDecimal `json:"price"`
	OldPrice decimal.NullDecimal `json:"old_price"`
}

// Regular is the price before any promotion.
func (p *Prices) Regular() decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	if p.OldPrice.Valid {
		return p.OldPrice
	}
	return p.Price
}

// Promo is the discounted price, invalid when there is no promotion.
func (p *Prices) Promo() decimal.NullDecimal {
	if p == nil || !p.OldPrice.Valid {
		return decimal.NullDecimal{}
	}
	return p.Price
}

// Stock is a per-store inventory entry
type Stock struct {
	Value  decimal.Decimal `json:"value"`
	Prices *Prices         `json:"prices,omitempty"`
}

// Product is a catalog item as returned by the category query
type Product struct {
	ID           ProductID     `json:"id"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Manufacturer *Manufacturer `json:"manufacturer,omitempty"`
	Stocks       []Stock       `json:"stocks"`
}

// FirstStock returns the stock entry the export is based on.
func (p Product) FirstStock() (Stock, bool) {
	if len(p.Stocks) == 0 {
		return Stock{}, false
	}
	return p.Stocks[0], true
}

// InStock reports whether the first stock entry has a positive quantity.
func (p Product) InStock() bool {
	s, ok := p.FirstStock()
	return ok && s.Value.IsPositive()
}

// Brand is the manufacturer name, empty when the API omits it.
func (p Product) Brand() string {
	if p.Manufacturer == nil {
		return ""
	}
	return p.Manufacturer.Name
}

// FormatPrice renders a price the way it appears in exports: the plain
// decimal value, or an empty string when the price is absent.
func FormatPrice(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
