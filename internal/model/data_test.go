package model_test

import (
	"encoding/json"
	"testing"

	"catalog-export/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDecode_PromoProduct(t *testing.T) {
	raw := `{"id":1,"name":"Tea","url":"/p/1","manufacturer":{"name":"Brand"},
		"stocks":[{"value":5,"prices":{"price":100,"old_price":150}}]}`

	var p model.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, model.ProductID("1"), p.ID)
	assert.Equal(t, "Brand", p.Brand())
	assert.True(t, p.InStock())

	s, ok := p.FirstStock()
	require.True(t, ok)
	assert.Equal(t, "150", model.FormatPrice(s.Prices.Regular()))
	assert.Equal(t, "100", model.FormatPrice(s.Prices.Promo()))
}

func TestProductDecode_NullOldPrice(t *testing.T) {
	raw := `{"id":"A-7","stocks":[{"value":1.5,"prices":{"price":99.9,"old_price":null}}]}`

	var p model.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, model.ProductID("A-7"), p.ID)
	s, _ := p.FirstStock()
	assert.Equal(t, "99.9", model.FormatPrice(s.Prices.Regular()))
	assert.Equal(t, "", model.FormatPrice(s.Prices.Promo()))
}

func TestProductAccessors_MissingFields(t *testing.T) {
	var p model.Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"stocks":[{"value":0}]}`), &p))

	assert.False(t, p.InStock())
	assert.Equal(t, "", p.Brand())

	s, ok := p.FirstStock()
	require.True(t, ok)
	assert.Nil(t, s.Prices)
	assert.Equal(t, "", model.FormatPrice(s.Prices.Regular()))
	assert.Equal(t, "", model.FormatPrice(s.Prices.Promo()))

	empty := model.Product{}
	_, ok = empty.FirstStock()
	assert.False(t, ok)
	assert.False(t, empty.InStock())
}

func TestProductInStock_NegativeAndNull(t *testing.T) {
	cases := map[string]bool{
		`{"stocks":[{"value":-3}]}`:             false,
		`{"stocks":[{"value":null}]}`:           false,
		`{"stocks":[]}`:                         false,
		`{"stocks":[{"value":0.01}]}`:           true,
		`{"stocks":[{"value":0},{"value":10}]}`: false,
	}
	for raw, want := range cases {
		var p model.Product
		require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
		assert.Equal(t, want, p.InStock(), raw)
	}
}

func TestProductID_Invalid(t *testing.T) {
	var p model.Product
	err := json.Unmarshal([]byte(`{"id":true}`), &p)
	assert.Error(t, err)
}

func TestRowRecord_Order(t *testing.T) {
	r := model.Row{
		ProductID:    "1",
		Name:         "Tea",
		URL:          "https://online.metro-cc.ru/p/1",
		RegularPrice: "150",
		PromoPrice:   "100",
		Brand:        "Brand",
	}
	assert.Equal(t, []string{"1", "Tea", "https://online.metro-cc.ru/p/1", "150", "100", "Brand"}, r.Record())
	assert.Len(t, model.CSVHeader, len(r.Record()))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "", model.FormatPrice(decimal.NullDecimal{}))
	assert.Equal(t, "12.5", model.FormatPrice(decimal.NewNullDecimal(decimal.RequireFromString("12.50"))))
}
